package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}

// validationFailure runs the given payload through the validator so error
// branches can be exercised with a genuine field error.
func validationFailure(t *testing.T, payload interface{}) error {
	t.Helper()
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(payload)
	require.Error(t, err)
	return err
}
