package validate

import (
	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/dto"
)

// Registration checks every field and returns the sanitized request. The
// account type defaults to individual when absent; address stays optional.
func Registration(r dto.RegisterRequest) (dto.RegisterRequest, Errors) {
	var errs Errors

	if fe := Name(r.Name); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := Email(r.Email); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := Phone(r.Phone); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := Password("password", r.Password); fe != nil {
		errs = append(errs, *fe)
	}
	if r.AccountType != "" && !domain.AccountType(r.AccountType).Valid() {
		errs = append(errs, FieldError{Field: "accountType", Message: "Invalid account type"})
	}
	if len(errs) > 0 {
		return dto.RegisterRequest{}, errs
	}

	out := dto.RegisterRequest{
		Name:        SanitizeText(r.Name),
		Email:       SanitizeEmail(r.Email),
		Phone:       SanitizePhone(r.Phone),
		Password:    r.Password,
		Address:     SanitizeText(r.Address),
		AccountType: r.AccountType,
	}
	if out.AccountType == "" {
		out.AccountType = string(domain.AccountIndividual)
	}
	return out, nil
}

func Login(r dto.LoginRequest) (dto.LoginRequest, Errors) {
	var errs Errors

	if fe := Email(r.Email); fe != nil {
		errs = append(errs, *fe)
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		return dto.LoginRequest{}, errs
	}
	return dto.LoginRequest{Email: SanitizeEmail(r.Email), Password: r.Password}, nil
}

func PasswordChange(r dto.ChangePasswordRequest) Errors {
	var errs Errors

	if r.OldPassword == "" {
		errs = append(errs, FieldError{Field: "oldPassword", Message: "Old password is required"})
	}
	if fe := Password("newPassword", r.NewPassword); fe != nil {
		errs = append(errs, *fe)
	}
	if r.OldPassword != "" && r.NewPassword != "" && r.OldPassword == r.NewPassword {
		errs = append(errs, FieldError{
			Field:   "newPassword",
			Message: "New password must be different from the old password",
		})
	}
	return errs
}

// ProfileUpdate validates only the fields that were supplied and returns a
// sanitized copy. Every field is optional.
func ProfileUpdate(r dto.UpdateProfileRequest) (dto.UpdateProfileRequest, Errors) {
	var errs Errors
	out := dto.UpdateProfileRequest{}

	if r.Name != nil && *r.Name != "" {
		if fe := Name(*r.Name); fe != nil {
			errs = append(errs, *fe)
		} else {
			v := SanitizeText(*r.Name)
			out.Name = &v
		}
	}
	if r.Phone != nil && *r.Phone != "" {
		if fe := Phone(*r.Phone); fe != nil {
			errs = append(errs, *fe)
		} else {
			v := SanitizePhone(*r.Phone)
			out.Phone = &v
		}
	}
	if r.Address != nil && *r.Address != "" {
		v := SanitizeText(*r.Address)
		out.Address = &v
	}
	if r.NewEmail != nil && *r.NewEmail != "" {
		if fe := Email(*r.NewEmail); fe != nil {
			errs = append(errs, FieldError{Field: "newEmail", Message: fe.Message})
		} else {
			v := SanitizeEmail(*r.NewEmail)
			out.NewEmail = &v
		}
	}
	if len(errs) > 0 {
		return dto.UpdateProfileRequest{}, errs
	}
	return out, nil
}

func EmailOnly(email string) (string, Errors) {
	if fe := Email(email); fe != nil {
		return "", Errors{*fe}
	}
	return SanitizeEmail(email), nil
}
