package view

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Route addresses a page view the way controllers do: an optional
// directory, the controller name and the action name. The view for a route
// lives at <views>/<directory>/<controller>/<action><ext>.
type Route struct {
	Directory  string `json:"directory,omitempty"`
	Controller string `json:"controller"`
	Action     string `json:"action"`
}

// ParseRoute parses "directory/controller/action". The last segment is the
// action, the one before it the controller and anything earlier the
// directory.
func ParseRoute(s string) (Route, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return Route{}, errors.New("empty route")
	}
	parts := strings.Split(s, "/")
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return Route{}, fmt.Errorf("invalid route %q", s)
		}
	}

	r := Route{Action: parts[len(parts)-1]}
	if len(parts) > 1 {
		r.Controller = parts[len(parts)-2]
	}
	if len(parts) > 2 {
		r.Directory = path.Join(parts[:len(parts)-2]...)
	}
	return r, nil
}

// Folder is the view folder for the route.
func (r Route) Folder() string {
	return path.Join(r.Directory, r.Controller)
}

func (r Route) String() string {
	return path.Join(r.Folder(), r.Action)
}
