package form

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidEmail(t *testing.T) {
	good := []string{
		"a@b.co",
		"ada@example.com",
		"Ada.Lovelace@Example.COM",
		"first.last@sub.domain.org",
		"user+tag@example.io",
		`"quoted local"@example.com`,
		"user@[192.168.0.1]",
	}
	for _, addr := range good {
		if !ValidEmail(addr) {
			t.Errorf("Address %q rejected; should be valid", addr)
		}
	}

	bad := []string{
		"",
		"not-an-email",
		"a@b",
		"a@b.c",
		"@example.com",
		"a@@example.com",
		"a..b@example.com",
		".a@example.com",
		"a b@example.com",
		" a@b.co",
		"a@b.co ",
		"a@exa_mple.com",
		"a@[192.168.0]",
		"a\u00a0b@example.com",
		"a\u2028b@example.com",
		"a\u3000b@example.com",
		"a\ufeffb@example.com",
		"a\vb@example.com",
		"\"a\u2028b\"@example.com",
		"\"a\rb\"@example.com",
	}
	for _, addr := range bad {
		if ValidEmail(addr) {
			t.Errorf("Address %q accepted; should be invalid", addr)
		}
	}
}

func TestValidateFieldRequired(t *testing.T) {
	msgs := DefaultMessages()
	for _, f := range []Field{Name, Subject, Message} {
		for _, v := range []string{"", " ", "\t", "\n  \r\n", "\ufeff", "\u00a0\u2028\u3000", "\v"} {
			if got := ValidateField(f, v); got != msgs.Required {
				t.Errorf("ValidateField(%s, %q) = %q; expected %q", f, v, got, msgs.Required)
			}
		}
		for _, v := range []string{"x", "  Ada  ", "Bonjour\n", "\u0085", "\u200b"} {
			if got := ValidateField(f, v); got != "" {
				t.Errorf("ValidateField(%s, %q) = %q; expected no error", f, v, got)
			}
		}
	}
}

func TestValidateFieldEmail(t *testing.T) {
	msgs := DefaultMessages()
	cases := map[string]string{
		"":             "",
		"   ":          "",
		"a@b.co":       "",
		"not-an-email": msgs.InvalidEmail,
		"ada@":         msgs.InvalidEmail,
	}
	for v, expected := range cases {
		if got := ValidateField(Email, v); got != expected {
			t.Errorf("ValidateField(email, %q) = %q; expected %q", v, got, expected)
		}
	}
}

func TestValidateAll(t *testing.T) {
	msgs := DefaultMessages()

	if errs := ValidateAll(FormFields{}); !cmp.Equal(errs, FieldErrors{
		Name:    msgs.Required,
		Email:   msgs.Required,
		Subject: msgs.Required,
		Message: msgs.Required,
	}) {
		t.Fatalf("Unexpected errors for empty form: %+v", errs)
	}

	valid := FormFields{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}
	if errs := ValidateAll(valid); !errs.Valid() {
		t.Fatalf("Valid form reported errors: %+v", errs)
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	expected := FieldErrors{Email: msgs.InvalidEmail}
	if diff := cmp.Diff(expected, ValidateAll(badEmail)); diff != "" {
		t.Fatalf("Unexpected errors for invalid email (-want +got):\n%s", diff)
	}

	blankSubject := valid
	blankSubject.Subject = "   "
	expected = FieldErrors{Subject: msgs.Required}
	if diff := cmp.Diff(expected, ValidateAll(blankSubject)); diff != "" {
		t.Fatalf("Unexpected errors for blank subject (-want +got):\n%s", diff)
	}
}

func TestCustomMessages(t *testing.T) {
	msgs := Messages{Required: "required", InvalidEmail: "bad email"}
	if got := msgs.ValidateField(Name, ""); got != "required" {
		t.Fatalf("Unexpected message: %q", got)
	}
	errs := msgs.ValidateAll(FormFields{Name: "x", Email: "nope", Subject: "x"})
	if errs.Email != "bad email" || errs.Message != "required" {
		t.Fatalf("Unexpected errors: %+v", errs)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		if got, err := ParseField(string(f)); err != nil || got != f {
			t.Fatalf("ParseField(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseField("phone"); err == nil {
		t.Fatal("ParseField succeeded for unknown field")
	}
}

func TestFormFieldsAccessors(t *testing.T) {
	var ff FormFields
	for _, f := range Fields {
		ff.Set(f, strings.ToUpper(string(f)))
	}
	expected := map[string]string{"name": "NAME", "email": "EMAIL", "subject": "SUBJECT", "message": "MESSAGE"}
	if diff := cmp.Diff(expected, ff.Map()); diff != "" {
		t.Fatalf("Unexpected field map (-want +got):\n%s", diff)
	}

	var fe FieldErrors
	if !fe.Valid() {
		t.Fatal("Zero FieldErrors reported invalid")
	}
	fe.Set(Message, "oops")
	if fe.Valid() || fe.Get(Message) != "oops" {
		t.Fatalf("Unexpected FieldErrors state: %+v", fe)
	}
}

func TestElements(t *testing.T) {
	elems := Elements(FormFields{Email: "x"}, FieldErrors{Email: "bad"})
	if len(elems) != len(Fields) {
		t.Fatalf("Unexpected element count: %d", len(elems))
	}
	for idx, f := range Fields {
		if elems[idx].Name != string(f) || elems[idx].ID != string(f) || !elems[idx].Required {
			t.Fatalf("Unexpected element %d: %+v", idx, elems[idx])
		}
	}
	if elems[1].Value != "x" || elems[1].Error != "bad" || elems[1].Type != EmailInput {
		t.Fatalf("Email element not filled: %+v", elems[1])
	}
	if elems[3].Type != TextArea {
		t.Fatalf("Message element should be a textarea: %+v", elems[3])
	}
}
