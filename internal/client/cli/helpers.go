package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Cabrel-loic/Expenses-tracking-web-app/pkg/api"
)

// describeError turns a tagged API error into a readable message.
// The payload shape was decoded once at the API boundary; here we only
// switch on the kind.
func describeError(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Kind {
	case api.ErrorKindField:
		names := make([]string, 0, len(apiErr.Fields))
		for name := range apiErr.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		b.WriteString("the server rejected the input:")
		for _, name := range names {
			for _, msg := range apiErr.Fields[name] {
				fmt.Fprintf(&b, "\n  %s: %s", name, msg)
			}
		}
		return errors.New(b.String())
	case api.ErrorKindNetwork:
		return fmt.Errorf("could not reach the server: %s", apiErr.Detail)
	case api.ErrorKindServer:
		return fmt.Errorf("the server failed (status %d), try again later", apiErr.Status)
	default:
		return errors.New(apiErr.Detail)
	}
}

// amountString formats an amount with two decimals
func amountString(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
