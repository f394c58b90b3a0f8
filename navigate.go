package viewx

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Navigator decides which view an outcome leads to. The default is
// RuleNavigator; hosts with their own routing install a replacement via
// WithNavigator.
type Navigator interface {
	HandleNavigation(rc *RenderContext, outcome string)
}

// RuleNavigator resolves outcomes against the application navigation rules,
// with implicit navigation as fallback: an outcome without a rule is treated
// as the target view path itself. A target prefixed with "redirect:"
// navigates with an HTTP redirect instead of a view switch; an empty outcome
// stays on the current view.
type RuleNavigator struct{}

var _ Navigator = RuleNavigator{}

func (RuleNavigator) HandleNavigation(rc *RenderContext, outcome string) {
	if outcome == "" {
		return
	}
	target := rc.app.NavigationRule(outcome).OrElse(outcome)
	if rest, ok := strings.CutPrefix(target, "redirect:"); ok {
		_ = rc.Redirect(rest)
		return
	}
	rc.SetViewID(rc.NormalizeViewID(target))
}

var redirectVerb = regexp.MustCompile(`%[-+#0 ]*[0-9]*(?:\.[0-9]+)?[a-zA-Z]`)

// Redirect sends a temporary redirect to the given URL. The URL is a
// printf-style pattern; the args are URL-encoded before substitution, so
// query strings can be assembled without manual escaping:
//
//	rc.Redirect("product.html?id=%d&name=%s", product.ID, product.Name)
//
// The context path is prepended when the URL does not start with '/'. A
// committed response can no longer redirect; ErrResponseCommitted is
// returned in that case.
func (rc *RenderContext) Redirect(path string, args ...any) error {
	if rc.w.Committed() {
		return ErrResponseCommitted
	}
	u := path
	if len(args) > 0 {
		// Args are encoded as strings, so every verb in the pattern has to
		// accept a string regardless of the arg's original type.
		encoded := lo.Map(args, func(arg any, _ int) any {
			return url.QueryEscape(fmt.Sprint(arg))
		})
		u = fmt.Sprintf(redirectVerb.ReplaceAllString(path, "%s"), encoded...)
	}
	if !strings.HasPrefix(u, "/") {
		u = rc.app.ContextPath() + "/" + u
	}
	_ = rc.w.Reset()
	http.Redirect(rc.w, rc.r, u, http.StatusFound)
	return nil
}
