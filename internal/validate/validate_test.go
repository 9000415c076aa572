package validate

import (
	"strings"
	"testing"

	"github.com/ssarthaks/gym-webapp/internal/dto"
)

func TestPasswordStrength(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"strong", "Str0ng!pass", true},
		{"minimum length", "Aa1!aaaa", true},
		{"empty", "", false},
		{"too short", "Aa1!", false},
		{"no uppercase", "str0ng!pass", false},
		{"no lowercase", "STR0NG!PASS", false},
		{"no digit", "Strong!pass", false},
		{"no symbol", "Str0ngpass1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fe := Password("password", tc.password)
			if tc.ok && fe != nil {
				t.Fatalf("expected %q to pass, got %v", tc.password, fe)
			}
			if !tc.ok && fe == nil {
				t.Fatalf("expected %q to fail", tc.password)
			}
		})
	}
}

func TestEmailFormat(t *testing.T) {
	for _, good := range []string{"a@b.co", "user.name+tag@example.org", "x_y%z@sub.domain.io"} {
		if fe := Email(good); fe != nil {
			t.Fatalf("expected %q to pass, got %v", good, fe)
		}
	}
	for _, bad := range []string{"", "plain", "a@b", "@example.com", "user@.com", "user@domain.c"} {
		if fe := Email(bad); fe == nil {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}

func TestNameBounds(t *testing.T) {
	if fe := Name("Al"); fe != nil {
		t.Fatalf("2-char name must pass, got %v", fe)
	}
	if fe := Name("A"); fe == nil {
		t.Fatalf("1-char name must fail")
	}
	if fe := Name(strings.Repeat("a", 51)); fe == nil {
		t.Fatalf("51-char name must fail")
	}
	if fe := Name("   "); fe == nil {
		t.Fatalf("whitespace-only name must fail")
	}
}

func TestSanitizers(t *testing.T) {
	if got := SanitizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("email not normalized: %q", got)
	}
	if got := SanitizeText(`<script>alert("x")</script>`); strings.Contains(got, "<script>") {
		t.Fatalf("markup not escaped: %q", got)
	}
	if got := SanitizeText("  padded  "); got != "padded" {
		t.Fatalf("whitespace not trimmed: %q", got)
	}
}

func TestRegistrationDefaultsAndSanitizes(t *testing.T) {
	out, errs := Registration(dto.RegisterRequest{
		Name:     "  Alice <b>Smith</b>  ",
		Email:    "Alice@Example.com",
		Phone:    "+977 981-234-5678",
		Password: "Str0ng!pass",
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", out.Email)
	}
	if strings.Contains(out.Name, "<b>") {
		t.Fatalf("name not escaped: %q", out.Name)
	}
	if out.AccountType != "individual" {
		t.Fatalf("account type must default to individual, got %q", out.AccountType)
	}
}

func TestRegistrationCollectsAllFieldErrors(t *testing.T) {
	_, errs := Registration(dto.RegisterRequest{
		Name:     "A",
		Email:    "nope",
		Phone:    "x",
		Password: "weak",
	})
	if len(errs) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %v", len(errs), errs)
	}
	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	for _, want := range []string{"name", "email", "phone", "password"} {
		if !fields[want] {
			t.Fatalf("missing error for %q: %v", want, errs)
		}
	}
}

func TestPasswordChangeRejectsSamePassword(t *testing.T) {
	errs := PasswordChange(dto.ChangePasswordRequest{OldPassword: "Str0ng!pass", NewPassword: "Str0ng!pass"})
	if len(errs) == 0 {
		t.Fatalf("expected an error for identical passwords")
	}
	if errs := PasswordChange(dto.ChangePasswordRequest{OldPassword: "Str0ng!pass", NewPassword: "N3w!passw"}); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestProfileUpdateValidatesOnlySuppliedFields(t *testing.T) {
	badEmail := "nope"
	if _, errs := ProfileUpdate(dto.UpdateProfileRequest{NewEmail: &badEmail}); len(errs) != 1 || errs[0].Field != "newEmail" {
		t.Fatalf("expected a newEmail error, got %v", errs)
	}

	name := "  Trimmed Name  "
	out, errs := ProfileUpdate(dto.UpdateProfileRequest{Name: &name})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out.Name == nil || *out.Name != "Trimmed Name" {
		t.Fatalf("name not sanitized: %v", out.Name)
	}
	if out.NewEmail != nil || out.Phone != nil || out.Address != nil {
		t.Fatalf("absent fields must stay absent: %+v", out)
	}
}
