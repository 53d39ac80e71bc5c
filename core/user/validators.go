package user

import (
	"bufio"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/academia/core"
	appfs "github.com/trezcool/academia/fs"
)

var (
	// password policy
	pwdMinLen     = 8
	PwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("a senha deve conter pelo menos %d caracteres", pwdMinLen)

	PwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "a senha não pode conter espaços"

	PwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "a senha não pode ser inteiramente numérica"

	pwdMaxSim      = .7
	PwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "a senha é muito parecida com o nome de usuário"

	PwdNoCommonTag  = "pwdnocommon"
	pwdNoCommonText = "a senha é muito comum"

	policyTexts = map[string]string{
		PwdMinLenTag:    pwdMinLenText,
		PwdNoSpaceTag:   pwdNoSpaceText,
		PwdNotAllNumTag: pwdNotAllNumText,
		PwdAttrSimTag:   pwdAttrSimText,
		PwdNoCommonTag:  pwdNoCommonText,
	}

	commonPasswords     []string
	commonPasswordsOnce sync.Once
)

// InitValidators registers the user validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(userStructValidation, NewUser{}, UpdateUser{}, ResetPasswordRequest{}, ChangePasswordRequest{})
	for tag, text := range policyTexts {
		core.RegisterCustomTranslation(validate, translator, tag, text)
	}
}

func loadCommonPasswords() {
	commonPasswords = make([]string, 0, 64)
	if file, err := appfs.FS.Open(appfs.CommonPasswords); err == nil {
		//goland:noinspection GoUnhandledErrorResult
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if pwd := strings.TrimSpace(scanner.Text()); pwd != "" {
				commonPasswords = append(commonPasswords, strings.ToLower(pwd))
			}
		}
	}
	sort.Strings(commonPasswords)
}

// userStructValidation does struct level validation on the payloads carrying a new password.
func userStructValidation(sl validator.StructLevel) {
	switch v := sl.Current().Interface().(type) {
	case NewUser:
		ReportPassword(sl, v.Password, v.Username)
	case UpdateUser:
		if v.Password != nil {
			ReportPassword(sl, *v.Password, v.username)
		}
	case ResetPasswordRequest:
		ReportPassword(sl, v.Password)
	case ChangePasswordRequest:
		ReportPassword(sl, v.Password, v.username)
	}
}

// ReportPassword reports pwd on the `password` field when it breaks the password policy.
func ReportPassword(sl validator.StructLevel, pwd string, attrs ...string) {
	if pwd == "" {
		return // reported by `required`
	}
	if tag := CheckPasswordPolicy(pwd, attrs...); tag != "" {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}
}

// PasswordPolicyText is the message of a password policy tag.
func PasswordPolicyText(tag string) string {
	return policyTexts[tag]
}

// CheckPasswordPolicy applies the password policy to pwd and returns the tag of the first broken rule:
// - minLen: 8
// - no whitespace
// - no all numeric
// - no user attrs similarity
// - no common password
func CheckPasswordPolicy(pwd string, attrs ...string) string {
	var digitCount int

	// - minLen: 8
	pwdLen := len([]rune(pwd))
	if pwdLen < pwdMinLen {
		return PwdMinLenTag
	}
	for _, char := range pwd {
		// - no whitespace
		if unicode.IsSpace(char) {
			return PwdNoSpaceTag
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}

	// - not all numeric
	if digitCount == pwdLen {
		return PwdNotAllNumTag
	}

	// - no user attrs similarity
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		lpwd, lattr := strings.ToLower(pwd), strings.ToLower(attr)
		ratio := difflib.NewMatcher(strings.Split(lpwd, ""), strings.Split(lattr, "")).QuickRatio()
		if ratio >= pwdMaxSim {
			return PwdAttrSimTag
		}
	}

	// - no common passwords
	commonPasswordsOnce.Do(loadCommonPasswords)
	lpwd := strings.ToLower(pwd)
	if idx := sort.SearchStrings(commonPasswords, lpwd); idx < len(commonPasswords) {
		if match := commonPasswords[idx]; lpwd == match {
			return PwdNoCommonTag
		}
	}
	return ""
}
