package catalog

import "strings"

// Origin is the upstream repository an index entry points at.
type Origin struct {
	Owner string
	Repo  string
}

// ParseOrigin decodes an origin identifier of the form "<prefix>/<owner>/<repo>".
// The prefix is discarded and owner and repo are taken verbatim. An
// identifier with fewer than three parts yields the zero Origin; callers
// must check [Origin.Valid] before building any URL from it.
func ParseOrigin(origin string) Origin {
	parts := strings.Split(origin, "/")
	if len(parts) < 3 {
		return Origin{}
	}
	return Origin{Owner: parts[1], Repo: parts[2]}
}

// Valid reports whether both owner and repo are present.
func (o Origin) Valid() bool {
	return o.Owner != "" && o.Repo != ""
}

func (o Origin) String() string {
	return o.Owner + "/" + o.Repo
}
