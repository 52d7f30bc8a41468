package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/noah-isme/council-console/internal/console"
	"github.com/noah-isme/council-console/internal/dto"
	"github.com/noah-isme/council-console/internal/session"
	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// passwordEnv lets scripts log in without a prompt.
const passwordEnv = "COUNCIL_ADMIN_PASSWORD"

func adminLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login", a.errOut)
	email := fs.String("email", "", "operator email")
	password := fs.String("password", "", "operator password (default $"+passwordEnv+" or prompt)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw := *password
	if pw == "" {
		pw = os.Getenv(passwordEnv)
	}
	if pw == "" {
		fmt.Fprint(a.errOut, "Password: ")
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}

	req := dto.AdminLoginRequest{Email: strings.TrimSpace(*email), Password: pw}
	if err := a.validator.Struct(req, "invalid login"); err != nil {
		return err
	}

	sess, err := a.sessions.LoginAdmin(ctx, req.Email, req.Password)
	if err != nil {
		a.notifier.Notify(console.Notification{Level: console.LevelError, Message: "Login failed. Please check your email and password.", Err: err})
		return err
	}
	a.notifier.Notify(console.Notification{Level: console.LevelSuccess, Message: "Welcome, " + sess.DisplayName() + "!"})
	return nil
}

func logout(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("logout", a.errOut).Parse(args); err != nil {
		return err
	}
	sess, err := a.sessions.Current(ctx)
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return err
	}
	if err := a.sessions.Logout(ctx, sess); err != nil {
		return err
	}
	a.notifier.Notify(console.Notification{Level: console.LevelSuccess, Message: "You have been logged out."})
	return nil
}

func whoami(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("whoami", a.errOut).Parse(args); err != nil {
		return err
	}
	sess, err := a.sessions.Current(ctx)
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", sess.DisplayName(), sess.Role)
	if exp, ok := sess.ExpiresAt(); ok {
		fmt.Fprintf(a.out, "session expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func studentLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("student login", a.errOut)
	appNo := fs.String("application-number", "", "application number, e.g. APP-2024-001")
	dob := fs.String("dob", "", "date of birth, "+console.DateLayout)
	if err := fs.Parse(args); err != nil {
		return err
	}
	_, err := console.NewPortal(a.sessions, a.options(false)).Login(ctx, *appNo, *dob)
	return err
}

func studentDashboard(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("student dashboard", a.errOut).Parse(args); err != nil {
		return err
	}
	d, err := console.NewPortal(a.sessions, a.options(false)).Dashboard(ctx)
	if err != nil {
		return err
	}

	tw := newTable(a.out)
	fmt.Fprintf(tw, "Student ID\t%s\n", d.StudentID)
	fmt.Fprintf(tw, "Name\t%s\n", d.Name)
	fmt.Fprintf(tw, "Phone\t%s\n", d.PhoneNumber)
	fmt.Fprintf(tw, "Payment status\t%s\n", d.PaymentStatus)
	fmt.Fprintf(tw, "Payment amount\t%.2f\n", d.PaymentAmount)
	if !d.ExpiresAt.IsZero() {
		fmt.Fprintf(tw, "Session expires\t%s\n", d.ExpiresAt.Local().Format(time.RFC1123))
	}
	return tw.Flush()
}

func studentLogout(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("student logout", a.errOut).Parse(args); err != nil {
		return err
	}
	return console.NewPortal(a.sessions, a.options(false)).Logout(ctx)
}

func enquirySubmit(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("enquiry submit", a.errOut)
	var p dto.EnquiryPayload
	fs.StringVar(&p.Name, "name", "", "your name")
	fs.StringVar(&p.Email, "email", "", "contact email")
	fs.StringVar(&p.PhoneNumber, "phone", "", "contact phone number")
	fs.StringVar(&p.Title, "title", "", "subject line")
	fs.StringVar(&p.Description, "description", "", "message")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := console.NewEnquiryForm(a.api, a.options(false))
	form.Set(p)
	err := form.Send(ctx)
	if appErrors.HasCode(err, appErrors.ErrTooManyRequests.Code) {
		fmt.Fprintln(a.errOut, "too many enquiries from this address, wait a minute and try again")
	}
	return err
}
