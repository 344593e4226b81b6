// Package cleanup provides the background cache sweeper and its ascii reporter
package cleanup

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/caching/stores"
)

const (
	cyan       = "\033[38;2;86;182;194m"  // One Dark Cyan: #56B6C2
	cyanBright = "\033[38;2;97;228;240m"  // Brighter Cyan: #61E4F0
	dimCyan    = "\033[38;2;47;91;102m"   // Dim Cyan: #2F5B66
	grey       = "\033[38;2;110;118;129m" // Brighter Grey: #6E7681
	dimGrey    = "\033[38;2;75;82;99m"    // Darker Grey: #4B5263
	success    = "\033[38;2;62;130;144m"  // Dim Cyan: #3E8290
	errorRed   = "\033[38;2;224;108;117m" // One Dark Red: #E06C75
	white      = "\033[38;2;171;178;191m" // One Dark Foreground: #ABB2BF
	reset      = "\033[0m"
	bold       = "\033[1m"
)

type Reporter struct {
	scores  *stores.ScoreStore
	reports *stores.ReportStore
	out     io.Writer
}

func NewReporter(scores *stores.ScoreStore, reports *stores.ReportStore, out io.Writer) *Reporter {
	return &Reporter{scores: scores, reports: reports, out: out}
}

func (r *Reporter) LogStage(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s%s✦ %s%s%s\n", success, bold, grey, formattedMsg, reset)
}

func (r *Reporter) LogInfo(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s▶ %s%s%s\n", dimGrey, grey, formattedMsg, reset)
}

// GenerateCacheReport renders one status block covering both stores.
func (r *Reporter) GenerateCacheReport(now time.Time) string {
	var report strings.Builder
	timestamp := now.UTC().Format("2006-01-02 15:04:05 MST")
	report.WriteString(fmt.Sprintf("%s%s▓ %s | SEO insights cache%s\n", bold, dimCyan, timestamp, reset))

	if corpus, ok := r.scores.Peek(); ok {
		age, _ := r.scores.Age()
		label := "live"
		if corpus.Synthetic {
			label = "synthetic"
		}
		report.WriteString(fmt.Sprintf("%s✦ %sScores: %s%d items%s %s(%s, age %s)%s\n",
			success, grey, cyanBright, len(corpus.Scores), reset, dimGrey, label, age.Truncate(time.Second), reset))
	} else {
		report.WriteString(fmt.Sprintf("%s✖ %sScores: %sNOT LOADED%s\n", errorRed, grey, errorRed, reset))
	}

	if n := r.reports.Len(); n > 0 {
		report.WriteString(fmt.Sprintf("%s✦ %sReports: %s%d cached%s\n", success, grey, white, n, reset))
	} else {
		report.WriteString(fmt.Sprintf("%s○ %sReports: %s--%s\n", dimGrey, grey, cyan, reset))
	}

	return report.String()
}
