package spotlight

import (
	"testing"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/iota-uz/hr-console/pkg/types"
)

func translator(t *testing.T) Translator {
	t.Helper()
	bundle := i18n.NewBundle(language.English)
	require.NoError(t, bundle.AddMessages(language.English,
		&i18n.Message{ID: "NavigationLinks.Employees", Other: "Employees"},
		&i18n.Message{ID: "NavigationLinks.JobHistory", Other: "Job History"},
		&i18n.Message{ID: "NavigationLinks.Jobs", Other: "Jobs"},
		&i18n.Message{ID: "NavigationLinks.Login", Other: "Log in"},
	))
	localizer := i18n.NewLocalizer(bundle, "en")
	return func(id string) string {
		msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
		if err != nil {
			return id
		}
		return msg
	}
}

var nav = []types.NavigationItem{
	{Name: "NavigationLinks.Login", Href: "login"},
	{
		Name:      "NavigationLinks.HRM",
		Protected: true,
		Children: []types.NavigationItem{
			{Name: "NavigationLinks.Employees", Href: "employees list", Protected: true},
			{Name: "NavigationLinks.Jobs", Href: "jobs list", Protected: true},
			{Name: "NavigationLinks.JobHistory", Href: "job-history list", Protected: true},
		},
	},
}

func TestQuickLinks_FindRanksVisibleLinks(t *testing.T) {
	links := FromNavigation(nav)

	found := links.Find("job", true, translator(t))
	require.Equal(t, []Item{
		{Label: "Jobs", Command: "jobs list"},
		{Label: "Job History", Command: "job-history list"},
	}, found)
}

func TestQuickLinks_ProtectedHiddenWithoutSession(t *testing.T) {
	links := FromNavigation(nav)
	tr := translator(t)

	require.Empty(t, links.Find("emp", false, tr))
	require.Equal(t, []Item{{Label: "Log in", Command: "login"}}, links.Find("log", false, tr))
}

func TestQuickLinks_ManualLinks(t *testing.T) {
	links := QuickLinks{}
	links.Add(NewQuickLink("NavigationLinks.Employees", "employees list").RequireSession())

	require.Len(t, links.Find("EMPL", true, translator(t)), 1)
	require.Empty(t, links.Find("EMPL", false, translator(t)))
}
