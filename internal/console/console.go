// Package console is the interactive menu over the same services the web
// API uses. The signed-in user is held by the loop itself and handed to
// every operation explicitly.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/Dinara-volsu/library-management-system/internal/auth"
	"github.com/Dinara-volsu/library-management-system/internal/catalog"
	"github.com/Dinara-volsu/library-management-system/internal/domain"
	"github.com/Dinara-volsu/library-management-system/internal/reservation"
)

// UI is the console front end.
type UI struct {
	catalog      *catalog.Service
	reservations *reservation.Service
	auth         *auth.Service

	in      *bufio.Scanner
	out     io.Writer
	current *domain.User
}

// New creates a console UI reading stdin and writing stdout.
func New(catalogSvc *catalog.Service, reservationSvc *reservation.Service, authSvc *auth.Service) *UI {
	return &UI{
		catalog:      catalogSvc,
		reservations: reservationSvc,
		auth:         authSvc,
		in:           bufio.NewScanner(os.Stdin),
		out:          os.Stdout,
	}
}

// Run shows the main menu until the user exits or stdin closes.
func (ui *UI) Run(ctx context.Context) {
	for {
		ui.printHeader()

		if ui.current == nil {
			fmt.Fprintln(ui.out, "1. Search books")
			fmt.Fprintln(ui.out, "2. Log in")
			fmt.Fprintln(ui.out, "3. Register")
			fmt.Fprintln(ui.out, "0. Exit")
		} else if ui.current.IsAdmin() {
			fmt.Fprintln(ui.out, "1. Search books")
			fmt.Fprintln(ui.out, "2. Add a new book")
			fmt.Fprintln(ui.out, "3. Write off a book")
			fmt.Fprintln(ui.out, "4. Confirm a reservation")
			fmt.Fprintln(ui.out, "5. Log out")
			fmt.Fprintln(ui.out, "0. Exit")
		} else {
			fmt.Fprintln(ui.out, "1. Search books")
			fmt.Fprintln(ui.out, "2. My reservations")
			fmt.Fprintln(ui.out, "3. Reserve a book")
			fmt.Fprintln(ui.out, "4. Cancel a reservation")
			fmt.Fprintln(ui.out, "5. Log out")
			fmt.Fprintln(ui.out, "0. Exit")
		}

		choice, ok := ui.readLine("\nSelect an option: ")
		if !ok {
			return
		}

		switch {
		case choice == "0":
			fmt.Fprintln(ui.out, "Goodbye!")
			return
		case choice == "1":
			ui.searchMenu(ctx)
		case ui.current == nil && choice == "2":
			ui.loginMenu(ctx)
		case ui.current == nil && choice == "3":
			ui.registerMenu(ctx)
		case ui.current != nil && ui.current.IsAdmin():
			ui.adminChoice(ctx, choice)
		case ui.current != nil:
			ui.readerChoice(ctx, choice)
		default:
			fmt.Fprintln(ui.out, "Unknown option, try again.")
		}
	}
}

func (ui *UI) adminChoice(ctx context.Context, choice string) {
	switch choice {
	case "2":
		ui.addBookMenu(ctx)
	case "3":
		ui.writeOffMenu(ctx)
	case "4":
		ui.confirmMenu(ctx)
	case "5":
		ui.logout()
	default:
		fmt.Fprintln(ui.out, "Unknown option, try again.")
	}
}

func (ui *UI) readerChoice(ctx context.Context, choice string) {
	switch choice {
	case "2":
		ui.myReservations(ctx)
	case "3":
		ui.reserveMenu(ctx)
	case "4":
		ui.cancelMenu(ctx)
	case "5":
		ui.logout()
	default:
		fmt.Fprintln(ui.out, "Unknown option, try again.")
	}
}

func (ui *UI) printHeader() {
	fmt.Fprintln(ui.out, "\n==================================================")
	fmt.Fprintln(ui.out, "            LIBRARY CATALOG MANAGER")
	fmt.Fprintln(ui.out, "==================================================")
	if ui.current != nil {
		role := "Reader"
		if ui.current.IsAdmin() {
			role = "Administrator"
		}
		fmt.Fprintf(ui.out, "Signed in as %s (%s)\n\n", ui.current.FullName, role)
	}
}

func (ui *UI) searchMenu(ctx context.Context) {
	query, _ := ui.readLine("Title, author or ISBN (empty for all): ")
	genre, _ := ui.readLine("Genre (empty to skip): ")
	yearText, _ := ui.readLine("Year (empty to skip): ")

	filter := domain.BookFilter{Query: query, Genre: genre}
	if yearText != "" {
		year, err := strconv.Atoi(yearText)
		if err != nil {
			fmt.Fprintln(ui.out, "Year must be a number.")
			return
		}
		filter.Year = year
	}

	books, err := ui.catalog.Search(ctx, filter)
	if err != nil {
		fmt.Fprintf(ui.out, "Search failed: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Fprintln(ui.out, "No books found.")
		return
	}

	fmt.Fprintf(ui.out, "Found %d book(s):\n", len(books))
	for _, b := range books {
		status := "available"
		if b.Available == 0 {
			status = "out of stock"
		}
		fmt.Fprintf(ui.out, "  [%d] %s — %s (%d), %s\n", b.ID, b.Title, b.Author, b.Year, b.Genre)
		fmt.Fprintf(ui.out, "      ISBN %s | %d/%d copies | %s\n", b.ISBN, b.Available, b.Quantity, status)
	}
}

func (ui *UI) loginMenu(ctx context.Context) {
	username, ok := ui.readLine("Username: ")
	if !ok {
		return
	}
	password, err := ui.readPassword("Password: ")
	if err != nil {
		fmt.Fprintf(ui.out, "Failed to read password: %v\n", err)
		return
	}

	user, err := ui.auth.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintf(ui.out, "Login failed: %v\n", err)
		return
	}
	ui.current = user
	fmt.Fprintf(ui.out, "Welcome, %s!\n", user.FullName)
}

func (ui *UI) registerMenu(ctx context.Context) {
	username, _ := ui.readLine("Username: ")
	email, _ := ui.readLine("Email: ")
	fullName, _ := ui.readLine("Full name: ")
	phone, _ := ui.readLine("Phone (optional): ")
	password, err := ui.readPassword("Password: ")
	if err != nil {
		fmt.Fprintf(ui.out, "Failed to read password: %v\n", err)
		return
	}

	user, err := ui.auth.Register(ctx, username, email, password, fullName, phone)
	if err != nil {
		fmt.Fprintf(ui.out, "Registration failed: %v\n", err)
		return
	}
	fmt.Fprintf(ui.out, "Registered %s. You can now log in.\n", user.Username)
}

func (ui *UI) logout() {
	ui.current = nil
	fmt.Fprintln(ui.out, "Logged out.")
}

func (ui *UI) addBookMenu(ctx context.Context) {
	title, _ := ui.readLine("Title: ")
	author, _ := ui.readLine("Author: ")
	year, ok := ui.readInt("Year: ")
	if !ok {
		return
	}
	isbn, _ := ui.readLine("ISBN: ")
	publisher, _ := ui.readLine("Publisher (optional): ")
	genre, _ := ui.readLine("Genre (optional): ")
	pages, _ := ui.readOptionalInt("Pages (optional): ")
	quantity, _ := ui.readOptionalInt("Quantity (default 1): ")

	book, err := ui.catalog.AddBook(ctx, ui.current, &domain.Book{
		Title:     title,
		Author:    author,
		Year:      year,
		ISBN:      isbn,
		Publisher: publisher,
		Genre:     genre,
		Pages:     pages,
		Quantity:  quantity,
	})
	if err != nil {
		fmt.Fprintf(ui.out, "Could not add book: %v\n", err)
		return
	}
	fmt.Fprintf(ui.out, "Added book %d: %s.\n", book.ID, book.Title)
}

func (ui *UI) writeOffMenu(ctx context.Context) {
	bookID, ok := ui.readInt("Book ID to write off: ")
	if !ok {
		return
	}
	if err := ui.catalog.WriteOff(ctx, ui.current, uint(bookID)); err != nil {
		fmt.Fprintf(ui.out, "Could not write off book: %v\n", err)
		return
	}
	fmt.Fprintln(ui.out, "Book written off.")
}

func (ui *UI) confirmMenu(ctx context.Context) {
	reservationID, ok := ui.readInt("Reservation ID to confirm: ")
	if !ok {
		return
	}
	leadDays, _ := ui.readOptionalInt("Pickup lead days (default 3): ")

	res, err := ui.reservations.Confirm(ctx, ui.current, uint(reservationID), leadDays)
	if err != nil {
		fmt.Fprintf(ui.out, "Could not confirm reservation: %v\n", err)
		return
	}
	fmt.Fprintf(ui.out, "Reservation %d confirmed, pickup by %s.\n",
		res.ID, res.PickupDeadline.Format("2006-01-02"))
}

func (ui *UI) reserveMenu(ctx context.Context) {
	bookID, ok := ui.readInt("Book ID to reserve: ")
	if !ok {
		return
	}
	res, err := ui.reservations.Reserve(ctx, ui.current, uint(bookID))
	if err != nil {
		fmt.Fprintf(ui.out, "Could not reserve book: %v\n", err)
		return
	}
	fmt.Fprintf(ui.out, "Reservation %d created, waiting for confirmation.\n", res.ID)
}

func (ui *UI) cancelMenu(ctx context.Context) {
	reservationID, ok := ui.readInt("Reservation ID to cancel: ")
	if !ok {
		return
	}

	existing, err := ui.reservations.Get(ctx, uint(reservationID))
	if err != nil {
		fmt.Fprintf(ui.out, "Could not cancel reservation: %v\n", err)
		return
	}
	if existing.UserID != ui.current.ID {
		fmt.Fprintln(ui.out, "You can only cancel your own reservations.")
		return
	}

	if _, err := ui.reservations.Cancel(ctx, uint(reservationID)); err != nil {
		fmt.Fprintf(ui.out, "Could not cancel reservation: %v\n", err)
		return
	}
	fmt.Fprintln(ui.out, "Reservation cancelled.")
}

func (ui *UI) myReservations(ctx context.Context) {
	reservations, err := ui.reservations.ListForUser(ctx, ui.current)
	if err != nil {
		fmt.Fprintf(ui.out, "Could not load reservations: %v\n", err)
		return
	}
	if len(reservations) == 0 {
		fmt.Fprintln(ui.out, "You have no reservations.")
		return
	}

	for _, r := range reservations {
		title := fmt.Sprintf("book %d", r.BookID)
		if r.Book != nil {
			title = r.Book.Title
		}
		line := fmt.Sprintf("  [%d] %s — %s, reserved %s",
			r.ID, title, r.Status, r.ReservationDate.Format("2006-01-02"))
		if r.PickupDeadline != nil {
			line += ", pickup by " + r.PickupDeadline.Format("2006-01-02")
		}
		fmt.Fprintln(ui.out, line)
	}
}

func (ui *UI) readLine(prompt string) (string, bool) {
	fmt.Fprint(ui.out, prompt)
	if !ui.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(ui.in.Text()), true
}

func (ui *UI) readInt(prompt string) (int, bool) {
	text, ok := ui.readLine(prompt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		fmt.Fprintln(ui.out, "A number is required.")
		return 0, false
	}
	return n, true
}

func (ui *UI) readOptionalInt(prompt string) (int, bool) {
	text, ok := ui.readLine(prompt)
	if !ok || text == "" {
		return 0, ok
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, true
	}
	return n, true
}

// readPassword reads a masked password from the terminal.
func (ui *UI) readPassword(prompt string) (string, error) {
	fmt.Fprint(ui.out, prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(ui.out)
	return strings.TrimSpace(string(bytePassword)), nil
}
