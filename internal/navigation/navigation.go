// Package navigation names the app's pages and moves the browser between them.
package navigation

import "net/http"

const (
	Home        = "home"
	GoalSetting = "goal-setting"
	GoalResult  = "goal-result"
	Help        = "help"
)

var paths = map[string]string{
	Home:        "/",
	GoalSetting: "/goal-setting",
	GoalResult:  "/goal-result",
	Help:        "/help",
}

// Path maps a route name to its URL path. Unknown names map to "/".
func Path(name string) string {
	if p, ok := paths[name]; ok {
		return p
	}
	return "/"
}

// Redirect sends the browser to the named page. HTMX requests get an
// HX-Redirect header so the whole page is replaced.
func Redirect(w http.ResponseWriter, r *http.Request, name string) {
	path := Path(name)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

type MenuItem struct {
	Label  string
	Path   string
	Active bool
}

// Menu returns the header drawer destinations in display order.
func Menu(currentPath string) []MenuItem {
	items := []MenuItem{
		{Label: "目標設定", Path: Path(GoalSetting)},
		{Label: "目標達成確認", Path: Path(GoalResult)},
		{Label: "使い方", Path: Path(Help)},
	}
	for i := range items {
		items[i].Active = items[i].Path == currentPath
	}
	return items
}
