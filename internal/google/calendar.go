package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"calvite/internal/models"
)

const (
	credentialsFile = "credentials.json"
	tokenFile       = "token.json"
)

// CalendarClient inserts extracted events into a Google Calendar.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
}

// NewClient creates an authenticated Google Calendar client from the saved
// token. Run the auth flow first to produce the token file.
func NewClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret string) (*CalendarClient, error) {
	config, err := getOAuthConfig(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not load token: %w. Please run the 'auth' command first", err)
	}

	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarClient{service: service, logger: logger}, nil
}

// InsertEvent creates one event in the given calendar with the invite
// recipient as attendee. The payload date is already a canonical instant,
// which Google accepts as RFC 3339 directly.
func (c *CalendarClient) InsertEvent(calendarID string, payload models.InvitePayload) error {
	c.logger.Debug("Inserting event into Google Calendar", "calendarID", calendarID, "title", payload.Title)

	start, err := time.Parse(time.RFC3339, payload.Date)
	if err != nil {
		return fmt.Errorf("payload date %q is not a canonical instant: %w", payload.Date, err)
	}

	ev := &calendar.Event{
		Summary:     payload.Title,
		Description: payload.Description,
		Location:    payload.Location,
		Start:       &calendar.EventDateTime{DateTime: payload.Date},
		End:         &calendar.EventDateTime{DateTime: start.Add(time.Hour).Format(time.RFC3339)},
	}
	if payload.Email != "" {
		ev.Attendees = []*calendar.EventAttendee{{Email: payload.Email}}
	}
	if payload.URL != "" {
		ev.Source = &calendar.EventSource{Title: "Original event", Url: payload.URL}
	}

	created, err := c.service.Events.Insert(calendarID, ev).SendUpdates("all").Do()
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	c.logger.Info("Event created in Google Calendar", "title", payload.Title, "htmlLink", created.HtmlLink)
	return nil
}

// GetOAuthConfigForAuthFlow is used by the auth command to get the config
// for the web flow.
func GetOAuthConfigForAuthFlow(clientID, clientSecret string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret)
}

// getOAuthConfig reads credentials and returns an OAuth2 config. Environment
// variables take priority over a local credentials.json file.
func getOAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("credentials.json not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the root directory")
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // For desktop app flow
	return config, nil
}

// TokenFromWeb exchanges the pasted authorization code for a token.
func TokenFromWeb(config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(context.Background(), authCode)
}

// SaveToken saves a token to the default token file.
func SaveToken(token *oauth2.Token) error {
	f, err := os.Create(tokenFile)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
