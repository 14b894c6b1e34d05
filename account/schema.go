package account

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-travel-client/restclient"
)

// SchemaError reports a login response that deviates from the canonical
// contract in a way we recognise: a required field is missing but a legacy
// alias for it is present.
type SchemaError struct {
	Field string // canonical field that is missing
	Alias string // legacy alias the backend sent instead
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("login response schema deviation: %q sent as legacy alias %q", e.Field, e.Alias)
}

// UnmarshalJSON accepts both role shapes the backend ships: a bare name
// string and a full `{id, name}` object.
func (r *Role) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &r.Name)
	}
	type roleObject Role
	var object roleObject
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return err
	}
	*r = Role(object)
	return nil
}

// legacyAliases maps canonical login fields to aliases older backend builds
// have shipped, including the "accesToken" misspelling.
var legacyAliases = map[string][]string{
	"accessToken":  {"accesToken", "access_token"},
	"refreshToken": {"refresh_token"},
	"accountId":    {"account_id", "id"},
}

func decodeLoginResult(body []byte) (LoginResult, error) {
	var envelope restclient.Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return LoginResult{}, errors.Wrap(err, "[account.decodeLoginResult] envelope")
	}

	var result LoginResult
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return LoginResult{}, errors.Wrap(err, "[account.decodeLoginResult] result")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(envelope.Result, &raw); err != nil {
		return LoginResult{}, errors.Wrap(err, "[account.decodeLoginResult] fields")
	}

	present := func(field string) bool {
		value, ok := raw[field]
		return ok && string(value) != "null" && string(value) != `""`
	}
	for _, field := range []string{"accessToken", "refreshToken", "accountId"} {
		if present(field) {
			continue
		}
		for _, alias := range legacyAliases[field] {
			if present(alias) {
				return LoginResult{}, &SchemaError{Field: field, Alias: alias}
			}
		}
	}

	if result.AccessToken == "" || result.RefreshToken == "" {
		return LoginResult{}, errors.New("[account.decodeLoginResult] response missing tokens")
	}
	return result, nil
}
