package advisor

import (
	"context"

	"github.com/pagewatch/a11ymon/internal/contract"
	"github.com/pagewatch/a11ymon/schema"
)

// NoopAdvisor is used when advice is disabled or no key is configured.
type NoopAdvisor struct{}

var _ contract.Advisor = NoopAdvisor{}

// Advise implements the Advisor interface.
func (NoopAdvisor) Advise(ctx context.Context, finding schema.Finding, pageContext string) string {
	return ""
}

// Close implements the Advisor interface.
func (NoopAdvisor) Close() error {
	return nil
}
