package receiver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"sentry_telegram/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// formValue is a scalar option value. Forms may send strings, booleans or
// numbers; all are kept as their trimmed string form.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = ""
	case string:
		*v = formValue(strings.TrimSpace(x))
	case bool:
		*v = formValue(strconv.FormatBool(x))
	case json.Number:
		*v = formValue(x.String())
	default:
		return &json.UnmarshalTypeError{Value: fmt.Sprintf("%T", x), Type: reflect.TypeFor[string]()}
	}
	return nil
}

// optionsForm is the JSON body accepted by PUT /projects/{slug}/options.
type optionsForm struct {
	Token           formValue `json:"token" validate:"required"`
	ChatID          formValue `json:"chat_id" validate:"required"`
	BotName         formValue `json:"bot_name"`
	IconURL         formValue `json:"icon_url" validate:"omitempty,http_url"`
	IncludeTags     formValue `json:"include_tags" validate:"omitempty,boolean"`
	IncludedTagKeys formValue `json:"included_tag_keys"`
	ExcludedTagKeys formValue `json:"excluded_tag_keys"`
	IncludeRules    formValue `json:"include_rules" validate:"omitempty,boolean"`
}

// values returns the options to store. Empty values are left out and
// booleans are normalized.
func (f *optionsForm) values() map[string]string {
	out := map[string]string{}
	set := func(key string, v formValue) {
		if v != "" {
			out[key] = string(v)
		}
	}
	setBool := func(key string, v formValue) {
		if v != "" {
			b, _ := strconv.ParseBool(string(v))
			out[key] = strconv.FormatBool(b)
		}
	}

	set(model.OptToken, f.Token)
	set(model.OptChatID, f.ChatID)
	set(model.OptBotName, f.BotName)
	set(model.OptIconURL, f.IconURL)
	setBool(model.OptIncludeTags, f.IncludeTags)
	set(model.OptIncludedTagKeys, f.IncludedTagKeys)
	set(model.OptExcludedTagKeys, f.ExcludedTagKeys)
	setBool(model.OptIncludeRules, f.IncludeRules)

	if out[model.OptBotName] == "" {
		out[model.OptBotName] = model.DefaultBotName
	}
	return out
}

// decodeOptions reads and validates an options form. It returns either the
// options to store or the sorted names of the invalid fields. A body that
// is not a JSON object is an error.
func decodeOptions(r io.Reader) (map[string]string, []string, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var form optionsForm
	if err := dec.Decode(&form); err != nil {
		if field, ok := invalidField(err); ok {
			return nil, []string{field}, nil
		}
		return nil, nil, err
	}

	if err := validate.Struct(&form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, nil, err
		}
		bad := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			bad = append(bad, fe.Field())
		}
		slices.Sort(bad)
		return nil, slices.Compact(bad), nil
	}

	return form.values(), nil, nil
}

// invalidField names the form field a decode error is about, if any.
func invalidField(err error) (string, bool) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field, true
	}
	if quoted, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		if field, err := strconv.Unquote(quoted); err == nil {
			return field, true
		}
	}
	return "", false
}

// maskOptions hides all but the last four characters of the bot token.
func maskOptions(opts map[string]string) map[string]string {
	out := make(map[string]string, len(opts))
	for k, v := range opts {
		out[k] = v
	}
	if tok := out[model.OptToken]; tok != "" {
		keep := 0
		if len(tok) > 8 {
			keep = 4
		}
		out[model.OptToken] = strings.Repeat("*", len(tok)-keep) + tok[len(tok)-keep:]
	}
	return out
}

func describeFields(fields []string) string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}
