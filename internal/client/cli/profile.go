package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/services"
)

func (a *App) Profile(ctx context.Context) error {
	p, err := a.profiles.Get(ctx)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

func (a *App) printProfile(p *services.Profile) {
	fmt.Fprintf(a.out, "Name:     %s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(a.out, "Email:    %s\n", p.Email)
	fmt.Fprintf(a.out, "Phone:    %s\n", p.PhoneNumber)
	if p.DateOfBirth != nil {
		fmt.Fprintf(a.out, "Born:     %s\n", *p.DateOfBirth)
	}
	if p.City != "" || p.State != "" {
		fmt.Fprintf(a.out, "Location: %s %s %s\n", p.City, p.State, p.Pincode)
	}
}

// EditProfile prompts for the editable fields, showing the current value.
// An empty answer keeps the value.
func (a *App) EditProfile(ctx context.Context) error {
	p, err := a.profiles.Get(ctx)
	if err != nil {
		return err
	}

	fields := []struct {
		label string
		value *string
	}{
		{"First name", &p.FirstName},
		{"Last name", &p.LastName},
		{"Email", &p.Email},
		{"City", &p.City},
		{"State", &p.State},
		{"Pincode", &p.Pincode},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, *f.value), a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.value = v
		}
	}

	if err := a.profiles.Save(ctx, *p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile saved")
	return nil
}

func (a *App) KYC(ctx context.Context) error {
	var k services.KYC
	fields := []struct {
		label string
		value *string
	}{
		{"Aadhaar number", &k.Aadhaar},
		{"Name as on Aadhaar", &k.AadhaarName},
		{"Date of birth (yyyy-mm-dd)", &k.DOB},
		{"PAN", &k.PAN},
		{"Bank account", &k.BankAccount},
		{"Bank name", &k.BankName},
		{"IFSC", &k.IFSC},
		{"Mobile", &k.Mobile},
		{"Email", &k.Email},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.label, a.out)
		if err != nil {
			return err
		}
		*f.value = v
	}

	if err := a.profiles.SaveKYC(ctx, k); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "KYC details submitted")
	return nil
}

func (a *App) Permissions(ctx context.Context) error {
	lines, err := GetPairs(a.reader, "Enter permissions as name=on|off", a.out)
	if err != nil {
		return err
	}
	perms, err := parsePermissions(lines)
	if err != nil {
		return err
	}
	if len(perms) == 0 {
		return nil
	}

	if err := a.profiles.SavePermissions(ctx, perms); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Permissions saved")
	return nil
}

func parsePermissions(lines []string) (map[string]bool, error) {
	perms := make(map[string]bool, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, apierr.Application(fmt.Sprintf("Invalid permission %q, use name=on|off", line), nil)
		}
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "on", "true", "yes", "1":
			perms[name] = true
		case "off", "false", "no", "0":
			perms[name] = false
		default:
			return nil, apierr.Application(fmt.Sprintf("Invalid value for %s: %q", name, value), nil)
		}
	}
	return perms, nil
}
