package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	apiclient "github.com/fairdesk/fairdesk/pkg/api/client"
	"github.com/fairdesk/fairdesk/pkg/config"
	"github.com/fairdesk/fairdesk/pkg/schedule"
	"github.com/fairdesk/fairdesk/pkg/session"
)

var buildVersion = "dev"

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "login":
		err = commandLogin(args)
	case "logout":
		err = commandLogout(args)
	case "whoami":
		err = commandWhoami(args)
	case "exhibition":
		err = commandExhibition(args)
	case "exhibitor":
		err = commandExhibitor(args)
	case "schedule":
		err = commandSchedule(args)
	case "version", "--version", "-v":
		fmt.Println(buildVersion)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app wires the API client and the session store for one invocation.
type app struct {
	client   *apiclient.Client
	sessions *session.Store
}

func newApp(apiBase string) (*app, error) {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		base = config.GetString("FAIRDESK_API_URL", "http://localhost:3001")
	}

	path, err := session.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}
	var storage session.Storage = session.NewFileStorage(path)
	if key := config.GetString("FAIRDESK_SESSION_KEY", ""); key != "" {
		storage = session.NewEncryptedFileStorage(path, key)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// The 401 hook needs the store, which needs the client; bind late.
	var sessions *session.Store
	cli, err := apiclient.New(base,
		apiclient.WithLogger(log),
		apiclient.WithUnauthorizedHook(func() {
			if sessions != nil {
				sessions.Clear()
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	sessions = session.New(cli, storage, log)
	return &app{client: cli, sessions: sessions}, nil
}

// restore returns the verified session or an instruction to log in.
func (a *app) restore(ctx context.Context) (session.Session, error) {
	sess, ok := a.sessions.Restore(ctx)
	if !ok {
		return session.Session{}, errors.New("please login first using 'fairdesk login'")
	}
	return sess, nil
}

func callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func commandLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	apiBase := fs.String("api", "", "API base URL (default http://localhost:3001)")
	fs.Parse(args)

	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}
	secret := strings.TrimSpace(*password)
	if secret == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Print("\n")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		secret = string(raw)
	}

	a, err := newApp(*apiBase)
	if err != nil {
		return err
	}
	ctx, cancel := callCtx()
	defer cancel()

	sess, err := a.sessions.Login(ctx, *email, secret)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s %s (%s)\n", sess.User.FirstName, sess.User.LastName, sess.User.Role)
	return nil
}

func commandLogout(args []string) error {
	a, err := newApp("")
	if err != nil {
		return err
	}
	ctx, cancel := callCtx()
	defer cancel()
	a.sessions.Restore(ctx)
	a.sessions.Logout(ctx)
	fmt.Println("signed out")
	return nil
}

func commandWhoami(args []string) error {
	a, err := newApp("")
	if err != nil {
		return err
	}
	ctx, cancel := callCtx()
	defer cancel()
	sess, err := a.restore(ctx)
	if err != nil {
		return err
	}
	u := sess.User
	fmt.Printf("%s %s <%s>\trole=%s", u.FirstName, u.LastName, u.Email, u.Role)
	if u.CompanyName != "" {
		fmt.Printf("\tcompany=%s", u.CompanyName)
	}
	fmt.Println()
	return nil
}

func commandExhibition(args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return errors.New("usage: fairdesk exhibition list")
	}
	a, err := newApp("")
	if err != nil {
		return err
	}
	ctx, cancel := callCtx()
	defer cancel()
	sess, err := a.restore(ctx)
	if err != nil {
		return err
	}
	exhibitions, err := a.client.ListExhibitions(ctx, sess.Token)
	if err != nil {
		return err
	}
	for _, ex := range exhibitions {
		fmt.Printf("%d\t%s\t%s\t%s - %s\n", ex.ID, ex.Name, ex.Venue, ex.StartDate, ex.EndDate)
	}
	return nil
}

func commandExhibitor(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: fairdesk exhibitor [list|create]")
	}
	switch args[0] {
	case "list":
		return exhibitorList(args[1:])
	case "create":
		return exhibitorCreate(args[1:])
	default:
		return fmt.Errorf("unknown exhibitor command: %s", args[0])
	}
}

func exhibitorList(args []string) error {
	fs := flag.NewFlagSet("exhibitor list", flag.ExitOnError)
	exhibitionID := fs.Int64("exhibition", 0, "Exhibition identifier")
	fs.Parse(args)
	if *exhibitionID == 0 {
		return errors.New("--exhibition is required")
	}

	a, err := newApp("")
	if err != nil {
		return err
	}
	ctx, cancel := callCtx()
	defer cancel()
	sess, err := a.restore(ctx)
	if err != nil {
		return err
	}
	exhibitors, err := a.client.ListExhibitors(ctx, sess.Token, *exhibitionID)
	if err != nil {
		return err
	}
	for _, ex := range exhibitors {
		fmt.Printf("%d\t%s\t%s\tbooth=%s\t%s\n", ex.ID, ex.CompanyName, ex.Email, ex.BoothNumber, ex.Status)
	}
	return nil
}

func exhibitorCreate(args []string) error {
	fs := flag.NewFlagSet("exhibitor create", flag.ExitOnError)
	exhibitionID := fs.Int64("exhibition", 0, "Exhibition identifier")
	company := fs.String("company", "", "Company name")
	email := fs.String("email", "", "Contact email")
	contact := fs.String("contact", "", "Contact person")
	phone := fs.String("phone", "", "Contact phone")
	booth := fs.String("booth", "", "Booth number")
	fs.Parse(args)

	if *exhibitionID == 0 {
		return errors.New("--exhibition is required")
	}
	if strings.TrimSpace(*company) == "" {
		return errors.New("--company is required")
	}
	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}

	a, err := newApp("")
	if err != nil {
		return err
	}
	ctx, cancel := callCtx()
	defer cancel()
	sess, err := a.restore(ctx)
	if err != nil {
		return err
	}
	exhibitor, err := a.client.CreateExhibitor(ctx, sess.Token, apiclient.CreateExhibitorInput{
		ExhibitionID: *exhibitionID,
		CompanyName:  *company,
		Email:        *email,
		ContactName:  *contact,
		Phone:        *phone,
		BoothNumber:  *booth,
	})
	if err != nil {
		return err
	}
	fmt.Printf("exhibitor created: %d (%s)\n", exhibitor.ID, exhibitor.CompanyName)
	return nil
}

func commandSchedule(args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	exhibitionID := fs.Int64("exhibition", 0, "Exhibition identifier")
	fs.Parse(args)
	if *exhibitionID == 0 {
		return errors.New("--exhibition is required")
	}

	a, err := newApp("")
	if err != nil {
		return err
	}
	ctx, cancel := callCtx()
	defer cancel()
	sess, err := a.restore(ctx)
	if err != nil {
		return err
	}

	exhibition, err := a.client.GetExhibition(ctx, sess.Token, *exhibitionID)
	if err != nil {
		return err
	}
	events, err := a.client.ListTradeEvents(ctx, sess.Token, *exhibitionID)
	if err != nil {
		return err
	}

	days := schedule.Days(exhibition.StartDate, exhibition.EndDate)
	inRange := make(map[string]bool, len(days))
	buckets := make(map[string][]apiclient.TradeEvent, len(days))
	var leftover []apiclient.TradeEvent
	for _, day := range days {
		inRange[day] = true
	}
	for _, ev := range events {
		key := schedule.DayKey(ev.EventDate)
		if !inRange[key] {
			leftover = append(leftover, ev)
			continue
		}
		buckets[key] = append(buckets[key], ev)
	}

	fmt.Printf("%s (%s)\n", exhibition.Name, exhibition.Venue)
	for i, day := range days {
		fmt.Printf("\n%s  day %d  [%s]\n", day, i+1, schedule.ColorForDay(i))
		dayEvents := buckets[day]
		if len(dayEvents) == 0 {
			fmt.Println("  (no events)")
			continue
		}
		for _, ev := range dayEvents {
			printEvent(ev)
		}
	}
	// Events with unparseable dates or dated outside the exhibition
	// range are still worth showing, just not under a day tab.
	if len(leftover) > 0 {
		fmt.Println("\nunscheduled")
		for _, ev := range leftover {
			printEvent(ev)
		}
	}
	return nil
}

func printEvent(ev apiclient.TradeEvent) {
	line := fmt.Sprintf("  %s", ev.Title)
	if ev.StartTime != "" {
		line += fmt.Sprintf("  %s", ev.StartTime)
		if ev.EndTime != "" {
			line += "-" + ev.EndTime
		}
	}
	if ev.Location != "" {
		line += "  @" + ev.Location
	}
	fmt.Println(line)
}

func printUsage() {
	fmt.Printf("fairdesk CLI %s\n\n", buildVersion)
	fmt.Print(`Usage:
	fairdesk login --email user@example.com [--password secret] [--api http://localhost:3001]
	fairdesk logout
	fairdesk whoami
	fairdesk exhibition list
	fairdesk exhibitor list --exhibition <id>
	fairdesk exhibitor create --exhibition <id> --company <name> --email <email> [--contact name] [--phone n] [--booth b]
	fairdesk schedule --exhibition <id>
	fairdesk version
`)
}
