package notes

import (
	"fmt"
	"strings"
)

// DescribeFailure turns a failed request into the single message shown to
// the user. The underlying error text keeps the failure class (transport,
// service status, malformed body) visible.
func DescribeFailure(op Operation, err error) string {
	if err == nil {
		return "unable to " + string(op)
	}
	detail := strings.TrimSpace(err.Error())
	if detail == "" {
		return "unable to " + string(op)
	}
	return fmt.Sprintf("unable to %s: %s", op, detail)
}
