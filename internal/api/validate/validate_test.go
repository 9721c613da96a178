package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	assert.Nil(t, Required("title", "ok"))
	assert.Equal(t, &ErrField{Field: "title", Msg: "required"}, Required("title", ""))
	assert.NotNil(t, Required("title", "   "))
}

func TestEmail(t *testing.T) {
	assert.Nil(t, Email("email", "a@b.c"))
	assert.NotNil(t, Email("email", "not-an-email"))
}

func TestCollect(t *testing.T) {
	assert.Nil(t, Collect(Required("a", "x"), Email("b", "a@b")))

	errs := Collect(
		Required("title", ""),
		Required("body", "ok"),
		Email("email", "bad"),
	)
	assert.Len(t, errs, 2)
	assert.Equal(t, "title: required; email: must be a valid email", errs.Error())
}
