// Package lead handles the contact details collected before the quiz starts.
package lead

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Data is the lead form as submitted by the landing page.
type Data struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	CompanySize string `json:"companySize"`
	Role        string `json:"role"`
	Phone       string `json:"phone,omitempty"`
	Source      string `json:"source,omitempty"`
}

var CompanySizes = []string{
	"1-10 employees",
	"11-50 employees",
	"51-200 employees",
	"201-500 employees",
	"501-1000 employees",
	"1000+ employees",
}

var Sources = []string{
	"Search Engine",
	"Social Media",
	"Referral",
	"Blog/Content",
	"Advertisement",
	"Other",
}

// freemailDomains are rejected; leads must use a business address.
var freemailDomains = map[string]struct{}{
	"gmail.com":   {},
	"yahoo.com":   {},
	"hotmail.com": {},
	"outlook.com": {},
	"aol.com":     {},
	"icloud.com":  {},
	"mail.com":    {},
	"ymail.com":   {},
	"live.com":    {},
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

// ValidEmail reports whether email is well formed and not a free-mail address.
func ValidEmail(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	domain := strings.ToLower(email[strings.Index(email, "@")+1:])
	_, free := freemailDomains[domain]
	return !free
}

// ValidPhone accepts digits with common separators, 10 to 15 digits in total.
func ValidPhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10 && digits <= 15
}

// tooShort counts characters, not bytes.
func tooShort(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) < 2
}

// Validate returns a message per invalid field; an empty map means the lead is valid.
func Validate(d Data) map[string]string {
	errs := make(map[string]string)

	if tooShort(d.FullName) {
		errs["fullName"] = "Please enter your full name"
	}
	switch {
	case d.Email == "":
		errs["email"] = "Email is required"
	case !ValidEmail(d.Email):
		errs["email"] = "Please use a business email address"
	}
	if tooShort(d.Company) {
		errs["company"] = "Please enter your company name"
	}
	if d.CompanySize == "" {
		errs["companySize"] = "Please select your company size"
	}
	if tooShort(d.Role) {
		errs["role"] = "Please enter your role"
	}
	if d.Phone != "" && !ValidPhone(d.Phone) {
		errs["phone"] = "Please enter a valid phone number"
	}
	return errs
}
