package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/synrule/pkg/schema"
)

func decode(t *testing.T, text string) any {
	t.Helper()

	var data any
	require.NoError(t, json.Unmarshal([]byte(text), &data))

	return data
}

func TestDefaultValidator(t *testing.T) {
	t.Parallel()

	v, err := schema.Default()
	require.NoError(t, err)
	require.NotNil(t, v)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v, err := schema.Default()
	require.NoError(t, err)

	tcs := map[string]struct {
		input   string
		wantErr bool
	}{
		"empty collections": {
			input:   `{"domains": [], "rules": []}`,
			wantErr: false,
		},
		"complete document": {
			input: `{
				"domains": [{"uuid": "d1", "name": "KS", "domains": ["PKS_KS"]}],
				"rules": [{
					"uuid": "r1", "name": "PKS",
					"domains": ["d1"],
					"filters": [{"domain": "d1", "family": "PKS_KS"}],
					"renames": [{"from": "d1", "to": "KS*"}],
					"evaluator": "0",
					"parent": null
				}]
			}`,
			wantErr: false,
		},
		"string parent": {
			input: `{
				"domains": [],
				"rules": [{"uuid": "r1", "name": "A", "domains": [], "evaluator": "", "parent": "r0"}]
			}`,
			wantErr: false,
		},
		"missing rules key": {
			input:   `{"domains": []}`,
			wantErr: true,
		},
		"rules not an array": {
			input:   `{"domains": [], "rules": {}}`,
			wantErr: true,
		},
		"domain type missing uuid": {
			input:   `{"domains": [{"name": "KS", "domains": []}], "rules": []}`,
			wantErr: true,
		},
		"numeric parent": {
			input: `{
				"domains": [],
				"rules": [{"uuid": "r1", "name": "A", "domains": [], "evaluator": "", "parent": 3}]
			}`,
			wantErr: true,
		},
		"unknown top-level key": {
			input:   `{"domains": [], "rules": [], "hierarchy": []}`,
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(decode(t, tc.input))

			if tc.wantErr {
				require.Error(t, err)

				var validationErr *schema.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.NotEmpty(t, validationErr.Detail)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewValidatorBadSchema(t *testing.T) {
	t.Parallel()

	_, err := schema.NewValidator([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal schema")
}
