package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("title", ErrCodeMissingField, "required")))
	assert.Equal(t, KindPermission, KindOf(fmt.Errorf("wrapped: %w", Permission(ErrCodeProtectedAccount, "no"))))
	assert.Equal(t, KindValidation, KindOf(FieldErrors{"email": "bad"}))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Add("password2", "The two password fields didn't match.")
	fe.Add("password2", "ignored")
	fe.Add("email", "Enter a valid email address.")

	err := fe.Err()
	assert.Error(t, err)
	assert.Equal(t, "email: Enter a valid email address.; password2: The two password fields didn't match.", err.Error())
	assert.Equal(t, "The two password fields didn't match.", Fields(err)["password2"])
}

func TestFields_FromAppError(t *testing.T) {
	fields := Fields(Validation("role", ErrCodeInvalidInput, "Invalid role specified."))
	assert.Equal(t, "Invalid role specified.", fields["role"])
	assert.Nil(t, Fields(Auth(ErrCodeInvalidCredentials, "x")))
}

func TestActivationFailed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ActivationFailed(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Activation link is invalid!", w.Body.String())
}
