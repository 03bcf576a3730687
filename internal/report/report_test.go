package report_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/PiotrMackowski/itemreport/internal/item"
	"github.com/PiotrMackowski/itemreport/internal/policy"
	"github.com/PiotrMackowski/itemreport/internal/report"
	_ "github.com/PiotrMackowski/itemreport/internal/report/csv"
	_ "github.com/PiotrMackowski/itemreport/internal/report/html"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = item.User{Name: "Bob", Role: item.RoleAdmin}
	user  = item.User{Name: "Uma", Role: item.RoleUser}
	guest = item.User{Name: "Gus", Role: "AUDITOR"}
)

func items(values ...int64) []item.Item {
	out := make([]item.Item, len(values))
	for i, v := range values {
		out[i] = item.Item{
			ID:    strconv.Itoa(i + 1),
			Name:  "item" + strconv.Itoa(i+1),
			Value: decimal.NewFromInt(v),
		}
	}
	return out
}

func TestFormatsRegistered(t *testing.T) {
	assert.Equal(t, []string{"CSV", "HTML"}, report.Formats())
}

func TestCSVEmptyAdmin(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules())

	res, err := g.Generate("CSV", admin, nil)
	require.NoError(t, err)
	assert.Equal(t, "ID,NOME,VALOR,USUARIO\n\nTotal,,\n0,,", res.Text)
}

func TestCSVUserFiltering(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules())

	res, err := g.Generate("CSV", user, items(100, 501, 500, 2000))
	require.NoError(t, err)

	want := "ID,NOME,VALOR,USUARIO\n" +
		"1,item1,100,Uma\n" +
		"3,item3,500,Uma\n" +
		"\n" +
		"Total,,\n" +
		"600,,"
	assert.Equal(t, want, res.Text)
}

func TestHTMLAdminPriority(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules())
	in := []item.Item{{ID: "1", Name: "Widget", Value: decimal.NewFromInt(1500)}}

	res, err := g.Generate("HTML", admin, in)
	require.NoError(t, err)

	assert.Contains(t, res.Text, `<tr style="font-weight:bold;"><td>1</td><td>Widget</td><td>1500</td></tr>`)
	assert.Contains(t, res.Text, "<h3>Total: 1500</h3>")
	assert.True(t, strings.HasPrefix(res.Text, "<html><body>"))
	assert.True(t, strings.HasSuffix(res.Text, "</body></html>"))
	assert.True(t, res.Items[0].Priority)
	assert.False(t, in[0].Priority)
}

func TestHTMLAdminBelowThresholdNotBold(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules())

	res, err := g.Generate("HTML", admin, items(1000))
	require.NoError(t, err)
	assert.Contains(t, res.Text, "<tr><td>1</td><td>item1</td><td>1000</td></tr>")
	assert.NotContains(t, res.Text, "font-weight")
	assert.False(t, res.Items[0].Priority)
}

func TestUnknownRoleHeaderAndFooterOnly(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules())

	for _, typ := range []string{"CSV", "HTML"} {
		t.Run(typ, func(t *testing.T) {
			res, err := g.Generate(typ, guest, items(1, 2, 3))
			require.NoError(t, err)
			assert.Equal(t, 0, res.Visible)
			assert.True(t, res.Total.IsZero())
			assert.NotContains(t, res.Text, "item1")
		})
	}
}

func TestUnsupportedTypes(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules())

	for _, typ := range []string{"XML", "csv", "Html", ""} {
		t.Run(typ, func(t *testing.T) {
			_, err := g.Generate(typ, admin, nil)
			assert.ErrorIs(t, err, report.ErrUnsupportedReportType)
		})
	}
}

func TestTotalMatchesVisibleSum(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules())
	in := []item.Item{
		{ID: "1", Name: "a", Value: decimal.RequireFromString("0.1")},
		{ID: "2", Name: "b", Value: decimal.RequireFromString("0.2")},
		{ID: "3", Name: "c", Value: decimal.RequireFromString("750")},
	}

	res, err := g.Generate("CSV", user, in)
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("0.3")), "total = %s", res.Total)
	assert.True(t, strings.HasSuffix(res.Text, "\n0.3,,"))
}

func TestSecondRunIsStable(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules())

	first, err := g.Generate("HTML", admin, items(2000, 10))
	require.NoError(t, err)
	second, err := g.Generate("HTML", admin, first.Items)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.True(t, second.Items[0].Priority)
	assert.False(t, second.Items[1].Priority)
}

func TestEscapeOption(t *testing.T) {
	g := report.NewGenerator(policy.DefaultRules(), report.WithFormatOptions(report.FormatOptions{Escape: true}))
	in := []item.Item{{ID: "1", Name: "a,<b>", Value: decimal.NewFromInt(1)}}

	csvRes, err := g.Generate("CSV", admin, in)
	require.NoError(t, err)
	assert.Contains(t, csvRes.Text, `1,"a,<b>",1,Bob`)

	htmlRes, err := g.Generate("HTML", admin, in)
	require.NoError(t, err)
	assert.Contains(t, htmlRes.Text, "<td>a,&lt;b&gt;</td>")
}
