package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"calvite/internal/caldav"
	"calvite/internal/dispatch"
	"calvite/internal/extract"
	"calvite/internal/google"
	"calvite/internal/ics"
	"calvite/internal/invite"
	"calvite/internal/inviteapi"
	"calvite/internal/models"
	"calvite/internal/store"
	"calvite/internal/timeparse"
)

const settingsFile = "calvite-settings.json"

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "calvite",
		Usage: "Extract calendar events from AI-generated text and send them as invites.",
		Commands: []*cli.Command{
			extractCommand(),
			sendCommand(),
			icsCommand(),
			publishCommand(),
			authCommand(),
			googleCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Parse a text file (or stdin) and list the events found in it.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "Input file. Reads stdin when omitted."},
			&cli.BoolFlag{Name: "strip", Usage: "Print the text with all event blocks removed instead."},
		},
		Action: func(c *cli.Context) error {
			content, err := readContent(c.String("file"))
			if err != nil {
				return err
			}

			if c.Bool("strip") {
				fmt.Print(extract.StripMarkup(content))
				return nil
			}

			records := extract.Events(content)
			if len(records) == 0 {
				fmt.Println("No events found.")
				return nil
			}
			for i, rec := range records {
				fmt.Printf("%d. %s\n", i+1, rec.Title)
				fmt.Printf("   %s at %s\n", timeparse.DisplayDate(rec.Date), timeparse.DisplayTime(rec.Time))
				if rec.Location != "" {
					fmt.Printf("   Location: %s\n", rec.Location)
				}
				if rec.Description != "" {
					fmt.Printf("   %s\n", rec.Description)
				}
				if rec.OriginalLink != "" {
					fmt.Printf("   Link: %s\n", rec.OriginalLink)
				}
			}
			return nil
		},
	}
}

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Dispatch every extracted event as a calendar invite.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "Input file. Reads stdin when omitted."},
			&cli.StringFlag{Name: "email", Usage: "Recipient email. Falls back to the last remembered one."},
			&cli.StringFlag{Name: "org", Value: os.Getenv("ORGANIZATION_NAME"), Usage: "Organization name used to prefix invite titles."},
			&cli.StringFlag{Name: "curated-by", Usage: "Attribution line for invite descriptions."},
			&cli.StringFlag{Name: "base-url", Value: os.Getenv("INVITE_API_BASE_URL"), Usage: "Base URL of the invite service."},
			&cli.IntFlag{Name: "only", Usage: "Send only the Nth extracted event (1-based)."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			if c.String("base-url") == "" {
				return fmt.Errorf("no invite service configured: set INVITE_API_BASE_URL or pass --base-url")
			}

			settings, err := store.NewFileStore(settingsFile)
			if err != nil {
				return fmt.Errorf("failed to open settings store: %w", err)
			}
			email := resolveEmail(logger, settings, c.String("email"))
			if !dispatch.ValidEmail(email) {
				fmt.Println("A valid recipient email is required (--email).")
				return nil
			}

			content, err := readContent(c.String("file"))
			if err != nil {
				return err
			}
			records := extract.Events(content)
			if len(records) == 0 {
				fmt.Println("No events found, nothing to send.")
				return nil
			}

			payloads := make([]models.InvitePayload, 0, len(records))
			for _, rec := range records {
				payloads = append(payloads, invite.Build(rec, c.String("org"), c.String("curated-by"), email))
			}

			client := inviteapi.NewClient(logger, c.String("base-url"))
			d := dispatch.New(logger)

			if n := c.Int("only"); n > 0 {
				if n > len(payloads) {
					return fmt.Errorf("event %d does not exist, only %d found", n, len(payloads))
				}
				outcome, ran := d.One(c.Context, payloads[n-1], client.Send)
				if ran {
					fmt.Println(outcome.Message)
				}
				return nil
			}

			outcome, ran := d.Many(c.Context, email, payloads, client.Send)
			if ran {
				fmt.Println(outcome.Message)
			}
			return nil
		},
	}
}

func icsCommand() *cli.Command {
	return &cli.Command{
		Name:  "ics",
		Usage: "Write one .ics file per extracted event.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "Input file. Reads stdin when omitted."},
			&cli.StringFlag{Name: "out", Value: ".", Usage: "Directory for the generated .ics files."},
			&cli.StringFlag{Name: "organizer", Usage: "Organizer email placed on each event."},
		},
		Action: func(c *cli.Context) error {
			content, err := readContent(c.String("file"))
			if err != nil {
				return err
			}
			records := extract.Events(content)
			if len(records) == 0 {
				fmt.Println("No events found, nothing to write.")
				return nil
			}

			for i, rec := range records {
				data, err := ics.Encode(rec, c.String("organizer"))
				if err != nil {
					return fmt.Errorf("failed to encode event '%s': %w", rec.Title, err)
				}
				name := filepath.Join(c.String("out"), fmt.Sprintf("event-%d.ics", i+1))
				if err := os.WriteFile(name, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", name, err)
				}
				fmt.Printf("Wrote %s (%s)\n", name, rec.Title)
			}
			return nil
		},
	}
}

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Publish every extracted event to a CalDAV calendar.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "Input file. Reads stdin when omitted."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			content, err := readContent(c.String("file"))
			if err != nil {
				return err
			}
			records := extract.Events(content)
			if len(records) == 0 {
				fmt.Println("No events found, nothing to publish.")
				return nil
			}

			publisher, err := caldav.NewPublisher(
				logger,
				os.Getenv("CALDAV_ENDPOINT"),
				os.Getenv("CALDAV_USERNAME"),
				os.Getenv("CALDAV_PASSWORD"),
				os.Getenv("CALDAV_CALENDAR_NAME"),
			)
			if err != nil {
				return fmt.Errorf("failed to create CalDAV publisher: %w", err)
			}

			published := 0
			for _, rec := range records {
				if err := publisher.PublishEvent(c.Context, rec); err != nil {
					logger.Error("Failed to publish event", "title", rec.Title, "error", err)
					// Continue with the next event even if one fails.
					continue
				}
				published++
			}
			fmt.Printf("Published %d of %d events.\n", published, len(records))
			return nil
		},
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account to get an API token.",
		Action: func(c *cli.Context) error {
			logger := setupLogger("info")
			logger.Info("Starting Google authentication flow.")

			config, err := google.GetOAuthConfigForAuthFlow(os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"))
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(config, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			if err := google.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.")
			return nil
		},
	}
}

func googleCommand() *cli.Command {
	return &cli.Command{
		Name:  "google",
		Usage: "Insert every extracted event into a Google Calendar.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "Input file. Reads stdin when omitted."},
			&cli.StringFlag{Name: "calendar", Value: "primary", Usage: "Target calendar ID."},
			&cli.StringFlag{Name: "email", Usage: "Attendee email. Falls back to the last remembered one."},
			&cli.StringFlag{Name: "org", Value: os.Getenv("ORGANIZATION_NAME"), Usage: "Organization name used to prefix event titles."},
			&cli.StringFlag{Name: "curated-by", Usage: "Attribution line for event descriptions."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			settings, err := store.NewFileStore(settingsFile)
			if err != nil {
				return fmt.Errorf("failed to open settings store: %w", err)
			}
			email := resolveEmail(logger, settings, c.String("email"))

			content, err := readContent(c.String("file"))
			if err != nil {
				return err
			}
			records := extract.Events(content)
			if len(records) == 0 {
				fmt.Println("No events found, nothing to insert.")
				return nil
			}

			client, err := google.NewClient(c.Context, logger, os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"))
			if err != nil {
				return fmt.Errorf("failed to create google client: %w", err)
			}

			inserted := 0
			for _, rec := range records {
				payload := invite.Build(rec, c.String("org"), c.String("curated-by"), email)
				if err := client.InsertEvent(c.String("calendar"), payload); err != nil {
					logger.Error("Failed to insert event", "title", rec.Title, "error", err)
					continue
				}
				inserted++
			}
			fmt.Printf("Inserted %d of %d events.\n", inserted, len(records))
			return nil
		},
	}
}

// resolveEmail prefers the flag value, remembering it when valid, and falls
// back to the last remembered email otherwise.
func resolveEmail(logger *slog.Logger, settings store.Store, flagEmail string) string {
	if flagEmail != "" {
		if dispatch.ValidEmail(flagEmail) {
			if err := settings.Set(store.RecipientEmailKey, flagEmail); err != nil {
				logger.Warn("Failed to remember recipient email", "error", err)
			}
		}
		return flagEmail
	}
	if saved, ok := settings.Get(store.RecipientEmailKey); ok {
		return saved
	}
	return ""
}

// readContent reads the input file, or stdin when path is empty or "-".
func readContent(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
