package form

import "fmt"

const (
	EmailInput ElementType = "email"
	TextInput  ElementType = "text"
	TextArea   ElementType = "textarea"
)

// ElementType defines the type of a form input element:
// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/input
type ElementType string

// Field names one of the four inputs of the contact form.  The string value is
// also the key used in the submitted form data.
type Field string

const (
	Name    Field = "name"
	Email   Field = "email"
	Subject Field = "subject"
	Message Field = "message"
)

// Fields lists every field in render order.
var Fields = []Field{Name, Email, Subject, Message}

// ParseField returns the Field matching the given input name.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown form field %q", name)
}

// FormFields holds the current value of each field exactly as it was entered.
type FormFields struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Get returns the value stored for f.
func (ff FormFields) Get(f Field) string {
	switch f {
	case Name:
		return ff.Name
	case Email:
		return ff.Email
	case Subject:
		return ff.Subject
	case Message:
		return ff.Message
	}
	return ""
}

// Set stores value for f.  Unknown fields are ignored.
func (ff *FormFields) Set(f Field, value string) {
	switch f {
	case Name:
		ff.Name = value
	case Email:
		ff.Email = value
	case Subject:
		ff.Subject = value
	case Message:
		ff.Message = value
	}
}

// Map returns the values keyed by field name.
func (ff FormFields) Map() map[string]string {
	m := make(map[string]string, len(Fields))
	for _, f := range Fields {
		m[string(f)] = ff.Get(f)
	}
	return m
}

// FieldErrors holds one message per field.  An empty string means the field
// passed validation.
type FieldErrors struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Get returns the error message for f.
func (fe FieldErrors) Get(f Field) string {
	return FormFields(fe).Get(f)
}

// Set stores the error message for f.
func (fe *FieldErrors) Set(f Field, msg string) {
	(*FormFields)(fe).Set(f, msg)
}

// Valid returns true when no field carries an error.
func (fe FieldErrors) Valid() bool {
	return fe == FieldErrors{}
}

// Element represents a single form element (field).
type Element struct {
	// ID of the element.  Must be unique.
	ID string
	// Name of the element.  Used as key to retrieve the value on submission.
	Name string
	// The Label of the field as it appears on the rendered form.
	Label string
	// Placeholder text shown while the field is empty.
	Placeholder string
	// If set, the field will be filled with the given value when rendered.
	Value string
	// Error message rendered under the field.
	Error string
	// Whether the element represents a required form field.
	Required bool
	// Type is the HTML input element type.
	Type ElementType
}

// Elements returns the rendering descriptors of the contact form, filled with
// the given values and errors.
func Elements(values FormFields, errs FieldErrors) []Element {
	elems := []Element{
		{Label: "Votre Nom", Placeholder: "Entrez votre nom", Type: TextInput},
		{Label: "Votre Email", Placeholder: "Entrez votre email", Type: EmailInput},
		{Label: "Sujet", Placeholder: "Entrez le sujet", Type: TextInput},
		{Label: "Message", Placeholder: "Entrez votre message", Type: TextArea},
	}
	for idx, f := range Fields {
		elems[idx].ID = string(f)
		elems[idx].Name = string(f)
		elems[idx].Required = true
		elems[idx].Value = values.Get(f)
		elems[idx].Error = errs.Get(f)
	}
	return elems
}
