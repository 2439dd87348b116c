//go:build e2e

package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers directory step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &directorySteps{tc: tc}

	ctx.Step(`^the directory has finished loading$`, steps.directoryHasFinishedLoading)

	ctx.Step(`^I open the directory page$`, steps.openPage)
	ctx.Step(`^I open the directory page filtered by "([^"]*)"$`, steps.openPageFiltered)
	ctx.Step(`^I open the directory page with language "([^"]*)"$`, steps.openPageWithLanguage)
	ctx.Step(`^I list users$`, steps.listUsers)
	ctx.Step(`^I list users filtered by "([^"]*)"$`, steps.listUsersFiltered)
	ctx.Step(`^I list nationalities$`, steps.listNationalities)

	ctx.Step(`^the visible users should be "([^"]*)"$`, steps.visibleUsersShouldBe)
	ctx.Step(`^no users should be visible$`, steps.noUsersShouldBeVisible)
	ctx.Step(`^the nationalities should be "([^"]*)"$`, steps.nationalitiesShouldBe)
	ctx.Step(`^I should see (\d+) user cards?$`, steps.shouldSeeCards)
}

type directorySteps struct {
	tc TestContext
}

const loadWait = 15 * time.Second

func (s *directorySteps) directoryHasFinishedLoading(ctx context.Context) error {
	deadline := time.Now().Add(loadWait)
	for time.Now().Before(deadline) {
		if err := s.tc.GET("/api/status", nil); err == nil && s.tc.GetLastResponseStatus() == 200 {
			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(s.tc.GetLastResponseBody(), &status); err == nil && status.Status == "loaded" {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("directory did not finish loading within %s", loadWait)
}

func (s *directorySteps) openPage(ctx context.Context) error {
	return s.tc.GET("/", nil)
}

func (s *directorySteps) openPageFiltered(ctx context.Context, query string) error {
	return s.tc.GET("/?"+encode(query), nil)
}

func (s *directorySteps) openPageWithLanguage(ctx context.Context, lang string) error {
	return s.tc.GET("/", map[string]string{"Accept-Language": lang})
}

func (s *directorySteps) listUsers(ctx context.Context) error {
	return s.tc.GET("/api/users", nil)
}

func (s *directorySteps) listUsersFiltered(ctx context.Context, query string) error {
	return s.tc.GET("/api/users?"+encode(query), nil)
}

func (s *directorySteps) listNationalities(ctx context.Context) error {
	return s.tc.GET("/api/nationalities", nil)
}

func (s *directorySteps) visibleUsersShouldBe(ctx context.Context, expected string) error {
	names, err := s.visibleNames()
	if err != nil {
		return err
	}
	want := splitNames(expected)
	if strings.Join(names, ", ") != strings.Join(want, ", ") {
		return fmt.Errorf("expected users [%s] but got [%s]", strings.Join(want, ", "), strings.Join(names, ", "))
	}
	return nil
}

func (s *directorySteps) noUsersShouldBeVisible(ctx context.Context) error {
	names, err := s.visibleNames()
	if err != nil {
		return err
	}
	if len(names) != 0 {
		return fmt.Errorf("expected no users but got [%s]", strings.Join(names, ", "))
	}
	return nil
}

func (s *directorySteps) nationalitiesShouldBe(ctx context.Context, expected string) error {
	var res struct {
		Nationalities []string `json:"nationalities"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &res); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	want := splitNames(expected)
	if strings.Join(res.Nationalities, ", ") != strings.Join(want, ", ") {
		return fmt.Errorf("expected nationalities [%s] but got [%s]", strings.Join(want, ", "), strings.Join(res.Nationalities, ", "))
	}
	return nil
}

func (s *directorySteps) shouldSeeCards(ctx context.Context, count int) error {
	actual := strings.Count(string(s.tc.GetLastResponseBody()), `<article class="card">`)
	if actual != count {
		return fmt.Errorf("expected %d user cards but found %d", count, actual)
	}
	return nil
}

func (s *directorySteps) visibleNames() ([]string, error) {
	var res struct {
		Users []struct {
			FullName string `json:"full_name"`
		} `json:"users"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &res); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	names := make([]string, 0, len(res.Users))
	for _, u := range res.Users {
		names = append(names, u.FullName)
	}
	return names, nil
}

func splitNames(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// encode turns "q=john&nationality=United States" into a valid query string.
func encode(query string) string {
	values, err := url.ParseQuery(query)
	if err != nil {
		return query
	}
	return values.Encode()
}
