package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudentIDPattern(t *testing.T) {
	valid := []string{"STU001", "20CS123", "ABC", "A1B2C3D4E5F6G7H8I9J0"}
	for _, id := range valid {
		assert.True(t, CompiledPatterns.StudentID.MatchString(id), "expected %q to match", id)
	}

	invalid := []string{"", "AB", "stu001", "STU 001", "STU-001", "A1B2C3D4E5F6G7H8I9J01"}
	for _, id := range invalid {
		assert.False(t, CompiledPatterns.StudentID.MatchString(id), "expected %q not to match", id)
	}
}

func TestEmailPattern(t *testing.T) {
	assert.True(t, CompiledPatterns.Email.MatchString("student@college.edu"))
	assert.False(t, CompiledPatterns.Email.MatchString("not-an-email"))
}
