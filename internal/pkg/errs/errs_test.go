package errs_test

import (
	"errors"
	"testing"

	"shiptrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("shipmentId", "123")

		assert.Equal(t, "shipmentId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("shipmentId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: shipmentId, ID is: 123 (cause: database connection failed)",
			err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: invalid format)", err.Error())
	})

	t.Run("sanitize strips newlines", func(t *testing.T) {
		cause := errors.New("line one\nline two")
		err := errs.NewValueIsInvalidErrorWithCause("notes", cause)
		assert.NotContains(t, err.Error(), "\n")
		assert.Contains(t, err.Error(), "line one line two")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("recipientName")

	assert.Equal(t, "recipientName", err.ParamName)
	assert.Equal(t, "value is required: recipientName", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
}

func TestDuplicateRecordError(t *testing.T) {
	t.Run("NewDuplicateRecordError", func(t *testing.T) {
		err := errs.NewDuplicateRecordError("pod_record")

		assert.Equal(t, "duplicate record: pod_record", err.Error())
		assert.Equal(t, errs.ErrDuplicateRecord, err.Unwrap())
	})

	t.Run("NewDuplicateRecordErrorWithCause", func(t *testing.T) {
		cause := errors.New("unique constraint violation")
		err := errs.NewDuplicateRecordErrorWithCause("pod_record", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "duplicate record: pod_record (cause: unique constraint violation)", err.Error())
	})
}

func TestConcurrentUpdateError(t *testing.T) {
	err := errs.NewConcurrentUpdateError("shipment", "abc")

	assert.Equal(t, "concurrent update: param is: shipment, ID is: abc", err.Error())
	assert.Equal(t, errs.ErrConcurrentUpdate, err.Unwrap())
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewObjectNotFoundError("shipmentId", "123"), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsRequiredError("name"), errs.ErrValueIsRequired)
	require.ErrorIs(t, errs.NewDuplicateRecordError("pod_record"), errs.ErrDuplicateRecord)
	require.ErrorIs(t, errs.NewConcurrentUpdateError("shipment", "abc"), errs.ErrConcurrentUpdate)
}
