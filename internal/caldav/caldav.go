// Package caldav publishes extracted events to a calendar on any CalDAV
// server, iCloud included.
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	cdav "github.com/emersion/go-webdav/caldav"

	"calvite/internal/ics"
	"calvite/internal/models"
)

// DefaultEndpoint is used when no CalDAV endpoint is configured.
const DefaultEndpoint = "https://caldav.icloud.com/"

// basicAuthTransport adds Basic Auth and a User-Agent to every request.
type basicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "calvite/1.0")
	return t.Transport.RoundTrip(req)
}

// Publisher writes extracted events into one named calendar on a CalDAV
// server.
type Publisher struct {
	caldavClient *cdav.Client
	webdavClient *webdav.Client
	logger       *slog.Logger
	endpoint     string
	calendarURL  string
	organizer    string
}

// NewPublisher connects to the CalDAV server at endpoint and resolves the
// calendar with the given display name. The username doubles as the
// organizer email on published events.
func NewPublisher(logger *slog.Logger, endpoint, username, password, calendarName string) (*Publisher, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	transport := &basicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport}

	caldavClient, err := cdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	webdavClient, err := webdav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create webdav client: %w", err)
	}

	p := &Publisher{
		caldavClient: caldavClient,
		webdavClient: webdavClient,
		logger:       logger,
		endpoint:     endpoint,
		organizer:    username,
	}

	logger.Info("Finding CalDAV calendar", "calendarName", calendarName)
	calendarURL, err := p.findCalendar(context.Background(), calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	p.calendarURL = calendarURL
	logger.Info("Successfully found CalDAV calendar", "url", calendarURL)

	return p, nil
}

// PublishEvent writes one extracted event into the calendar.
func (p *Publisher) PublishEvent(ctx context.Context, rec models.EventRecord) error {
	p.logger.Debug("Publishing event to CalDAV", "title", rec.Title)

	cal := ics.Calendar(rec, p.organizer)
	uid := cal.Children[0].Props.Get(ical.PropUID).Value

	// The event path must be relative to the endpoint for the webdav client.
	eventPath := path.Join(strings.TrimPrefix(p.calendarURL, p.endpoint), fmt.Sprintf("%s.ics", uid))

	writer, err := p.webdavClient.Create(ctx, eventPath)
	if err != nil {
		return fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}
	defer writer.Close()

	if err := ical.NewEncoder(writer).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}

	p.logger.Info("Successfully published event", "title", rec.Title)
	return nil
}

// findCalendar discovers the account's calendars and returns the URL of the
// one with the matching display name.
func (p *Publisher) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := p.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := p.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := p.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return fmt.Sprintf("%s%s", strings.TrimSuffix(p.endpoint, "/"), cal.Path), nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
