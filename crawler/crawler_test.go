package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"divcalendar/browser/browsertest"
	"divcalendar/dividend"
	"divcalendar/enrich"
	"divcalendar/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const origin = "https://divvydiary.com"

func monthURL(year int, month time.Month) string {
	return fmt.Sprintf("%s/en/calendar/%d-%d", origin, year, month)
}

func row(company, ex, pay, pct, amount string) string {
	return fmt.Sprintf(`<tr class="group"><td><a class="truncate" href="/en/%s">%s</a></td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
		company, company, ex, pay, pct, amount)
}

var marchPage = `<html><body><table>` +
	row("Gamma", "15/03/2025", "30/03/2025", "1.0%", "$1.00") +
	row("Alpha", "01/03/2025", "15/03/2025", "2.5%", "$0.50") +
	`</table>
<a href="/en/calendar/2025-03-01">Show all 3 dividends on <time>1 March</time></a>
<a href="/en/calendar/2025-03-02">Show all 7 dividends on <time>2 March</time></a>
</body></html>`

var march1Page = `<html><body><table>` +
	row("Alpha", "01/03/2025", "15/03/2025", "2.5%", "$0.50") +
	row("Beta", "01/03/2025", "16/03/2025", "1.2%", "€0.30") +
	`</table></body></html>`

func newCrawler(fetcher *browsertest.Fetcher, enricher *enrich.Enricher, log *zap.Logger) *Crawler {
	service := scraper.NewService(scraper.NewDefaultRegistry(origin), origin)
	return New(fetcher, service, enricher, Options{
		CalendarURL: origin + "/en/calendar",
		MonthURL:    monthURL,
		PageTimeout: time.Second,
	}, log)
}

func TestCrawlMonth(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fetcher := &browsertest.Fetcher{Pages: map[string]string{
		monthURL(2025, time.March):         marchPage,
		origin + "/en/calendar/2025-03-01": march1Page,
		origin + "/en/calendar/2025-03-02": `<html><body><div class="spinner"></div></body></html>`,
	}}

	records, err := newCrawler(fetcher, nil, zap.New(core)).CrawlMonth(context.Background(), 2025, time.March)
	require.NoError(t, err)

	var companies []string
	for _, r := range records {
		companies = append(companies, r.Company)
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, companies)
	assert.Equal(t, origin+"/en/Alpha", records[0].SourceLink)
	assert.Equal(t, []string{
		monthURL(2025, time.March),
		origin + "/en/calendar/2025-03-01",
		origin + "/en/calendar/2025-03-02",
	}, fetcher.Calls)

	skipped := logs.FilterMessage("skipping page").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "timeout", skipped[0].ContextMap()["outcome"])
}

type fakeSearcher map[string]string

func (f fakeSearcher) Search(ctx context.Context, name string) ([]enrich.Quote, error) {
	sym, ok := f[name]
	if !ok {
		return nil, errors.New("search unavailable")
	}
	return []enrich.Quote{{Symbol: &sym}}, nil
}

func TestCrawlYearSkipsEmptyMonthsAndEnriches(t *testing.T) {
	fetcher := &browsertest.Fetcher{
		Pages: map[string]string{
			monthURL(2025, time.March):         marchPage,
			origin + "/en/calendar/2025-03-01": march1Page,
		},
		Errors: map[string]error{
			monthURL(2025, time.April): errors.New("net::ERR_NAME_NOT_RESOLVED"),
		},
	}
	enricher := enrich.New(fakeSearcher{"Alpha": "ALP", "Beta": "BET"}, nil, zap.NewNop())

	periods, err := newCrawler(fetcher, enricher, zap.NewNop()).
		CrawlYear(context.Background(), 2025, []time.Month{time.March, time.April})
	require.NoError(t, err)

	require.Len(t, periods, 1)
	assert.Equal(t, "March", periods[0].Label)
	require.Len(t, periods[0].Records, 3)
	assert.Equal(t, "ALP", periods[0].Records[0].Ticker)
	assert.Equal(t, "BET", periods[0].Records[1].ISIN)
	assert.Empty(t, periods[0].Records[2].Ticker)
}

func TestCrawlYearDefaultsToAllMonths(t *testing.T) {
	fetcher := &browsertest.Fetcher{}
	periods, err := newCrawler(fetcher, nil, zap.NewNop()).CrawlYear(context.Background(), 2025, nil)
	require.NoError(t, err)
	assert.Empty(t, periods)
	assert.Len(t, fetcher.Calls, 12)
}

func TestCrawlCalendar(t *testing.T) {
	calendar := `<html><body>
<h2>Sunday 2 March 2025</h2>
<div>Preview Co 02/03/2025 16/03/2025 1.0% $0.10</div>
<a href="/en/calendar/2025-03-02">Show all 2 dividends on 2 March</a>
</body></html>`
	day := `<html><body><main>
<h2>Sunday 2 March 2025</h2>
<div>Beta Inc 02/03/2025 16/03/2025 1.2% €0.30</div>
<div>Beta Inc 02/03/2025 16/03/2025 1.2% €0.30</div>
<div>Kappa SA 02/03/2025</div>
</main></body></html>`

	fetcher := &browsertest.Fetcher{Pages: map[string]string{
		origin + "/en/calendar":            calendar,
		origin + "/en/calendar/2025-03-02": day,
	}}

	records, err := newCrawler(fetcher, nil, zap.NewNop()).CrawlCalendar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dividend.Record{
		{Company: "Beta Inc", ExDate: "02/03/2025", PayDate: "16/03/2025", DivPercent: "1.2%", Amount: "€0.30"},
		{Company: "Beta Inc", ExDate: "02/03/2025", PayDate: "16/03/2025", DivPercent: "1.2%", Amount: "€0.30"},
		{Company: "Kappa SA", ExDate: dividend.NotAvailable, PayDate: dividend.NotAvailable, DivPercent: dividend.NotAvailable, Amount: dividend.NotAvailable},
	}, records)
}

func TestCrawlAbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCrawler(&browsertest.Fetcher{}, nil, zap.NewNop()).CrawlYear(ctx, 2025, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
