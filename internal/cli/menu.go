package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"foodShare/internal/auth"
	"foodShare/internal/config"
	"foodShare/internal/foodshare"
)

// errQuit ends the menu loop normally.
var errQuit = errors.New("quit")

// Menu is the interactive text front end. It keeps the logged-in principal
// for the lifetime of the process.
type Menu struct {
	svc       *foodshare.Service
	in        Prompter
	out       io.Writer
	format    config.OutputFormat
	principal *auth.Principal
}

func NewMenu(svc *foodshare.Service, in Prompter, out io.Writer, format config.OutputFormat) *Menu {
	return &Menu{svc: svc, in: in, out: out, format: format}
}

// Run shows the top menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		var err error
		if m.principal == nil {
			err = m.topMenu(ctx)
		} else {
			err = m.sessionMenu(ctx)
		}
		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrInterrupted):
			m.println()
		default:
			return err
		}
	}
}

func (m *Menu) topMenu(ctx context.Context) error {
	m.println("Welcome to the Food Sharing App!")
	choice, err := m.in.Prompt("Press 1 to register a new user,  2 to login or 3 to exit: ")
	if err != nil {
		return err
	}
	switch strings.TrimSpace(choice) {
	case "1":
		return m.register(ctx)
	case "2":
		return m.login(ctx)
	case "3":
		return errQuit
	default:
		m.println("Wrong choice.")
	}
	return nil
}

// register asks again until an account is created.
func (m *Menu) register(ctx context.Context) error {
	for {
		username, err := m.in.Prompt("Enter a new username: ")
		if err != nil {
			return err
		}
		password, err := m.in.PromptSecret("Enter a new password: ")
		if err != nil {
			return err
		}
		p, err := m.svc.Register(ctx, username, password)
		switch {
		case err == nil:
			m.println("New user registration successful!")
			m.principal = p
			return nil
		case errors.Is(err, foodshare.ErrUsernameTaken):
			m.println("Username already exists. Please choose another username.")
		case errors.Is(err, foodshare.ErrMissingCredentials):
			m.println("Username and password must not be empty.")
		default:
			m.fail("registration failed", err)
			return nil
		}
	}
}

func (m *Menu) login(ctx context.Context) error {
	username, err := m.in.Prompt("Enter your username: ")
	if err != nil {
		return err
	}
	password, err := m.in.PromptSecret("Enter your password: ")
	if err != nil {
		return err
	}
	p, err := m.svc.Login(ctx, username, password)
	switch {
	case err == nil:
		m.println("Login successful.")
		m.principal = p
	case errors.Is(err, foodshare.ErrInvalidCredentials):
		m.println("Wrong username or password.")
	default:
		m.fail("login failed", err)
	}
	return nil
}

func (m *Menu) sessionMenu(ctx context.Context) error {
	ctx = auth.WithPrincipal(ctx, m.principal)

	m.printf("Logged in as %s.\n", m.principal.Username)
	m.println("1. Add new listing")
	m.println("2. View my listings")
	m.println("3. View all listings")
	m.println("4. Exit")
	choice, err := m.in.Prompt("Enter your choice: ")
	if err != nil {
		return err
	}
	switch strings.TrimSpace(choice) {
	case "1":
		return m.addListing(ctx)
	case "2":
		m.println("My listings")
		return m.myListings(ctx)
	case "3":
		return m.allListings(ctx)
	case "4":
		m.println("Bye!")
		return errQuit
	default:
		m.println("Wrong choice.")
	}
	return nil
}

func (m *Menu) addListing(ctx context.Context) error {
	area, err := m.in.Prompt("Enter your area: ")
	if err != nil {
		return err
	}
	food, err := m.in.Prompt("Enter your food: ")
	if err != nil {
		return err
	}
	var qty int
	for {
		raw, err := m.in.Prompt("Enter food quantity / portions: ")
		if err != nil {
			return err
		}
		qty, err = strconv.Atoi(strings.TrimSpace(raw))
		if err == nil {
			break
		}
		m.println("Quantity must be a whole number.")
	}
	contact, err := m.in.Prompt("Enter your contact information: ")
	if err != nil {
		return err
	}

	_, err = m.svc.AddListing(ctx, foodshare.ListingInput{Area: area, Food: food, Quantity: qty, Contact: contact})
	switch {
	case err == nil:
		m.println("New listing added successfully!")
	case errors.Is(err, foodshare.ErrInvalidListing):
		m.printf("Listing not added: %v\n", err)
	default:
		m.fail("add listing failed", err)
	}
	return nil
}

func (m *Menu) myListings(ctx context.Context) error {
	listings, err := m.svc.MyListings(ctx)
	if err != nil {
		m.fail("list listings failed", err)
		return nil
	}
	if len(listings) == 0 {
		return nil
	}
	renderListings(m.out, listings, m.format)

	answer, err := m.in.Prompt("Enter ID of listing to delete or Enter to return to menu: ")
	if err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	id, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		m.println("Wrong listing.")
		return nil
	}
	err = m.svc.DeleteListing(ctx, id)
	switch {
	case err == nil:
		m.println("Listing deleted successfully!")
	case errors.Is(err, foodshare.ErrListingNotFound):
		m.println("Wrong listing.")
	default:
		m.fail("delete listing failed", err)
	}
	return nil
}

func (m *Menu) allListings(ctx context.Context) error {
	area, err := m.in.Prompt("Enter area to search: ")
	if err != nil {
		return err
	}
	listings, err := m.svc.SearchListings(ctx, strings.TrimSpace(area))
	if err != nil {
		m.fail("search listings failed", err)
		return nil
	}
	if len(listings) == 0 {
		m.println("No listings found.")
		return nil
	}
	renderListings(m.out, listings, m.format)
	return nil
}

// fail reports an unexpected store error and keeps the loop going.
func (m *Menu) fail(msg string, err error) {
	log.Error(msg, "error", err)
	m.printf("Something went wrong: %v\n", err)
}

func (m *Menu) println(a ...any) {
	_, _ = fmt.Fprintln(m.out, a...)
}

func (m *Menu) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(m.out, format, a...)
}
