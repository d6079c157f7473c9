// SPDX-License-Identifier: AGPL-3.0-only
package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fluffyriot/hubsync/internal/helpers"
)

const textWidth = 60

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func section(title, color string, body string) string {
	return titleStyle.Foreground(lipgloss.Color(color)).Render(title) + "\n" + body
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func RenderTableCounts(c TableCounts) string {
	t := newTable("table", "rows")
	values := []int64{c.Fids, c.Casts, c.Reactions, c.Verifications, c.Links, c.UserData}
	for i, name := range helpers.AvailableTables {
		t.Row(name.Name, strconv.FormatInt(values[i], 10))
	}
	return section("Table totals", "#8a63d2", t.String())
}

func RenderAccounts(accounts []AccountView) string {
	if len(accounts) == 0 {
		return section("Accounts", "#8a63d2", mutedStyle.Render("no accounts synced yet"))
	}

	t := newTable("fid", "registered", "profile")
	for _, a := range accounts {
		t.Row(strconv.FormatInt(a.Fid, 10), formatTime(a.RegisteredAt), a.ProfileURL)
	}
	return section("Accounts", "#8a63d2", t.String())
}

func RenderAccountSummary(s AccountSummary) string {
	var b strings.Builder

	b.WriteString(section(fmt.Sprintf("Account %d", s.Account.Fid), helpers.TableColor("fids"),
		newTable("table", "rows").
			Row("casts", strconv.FormatInt(s.Counts.Casts, 10)).
			Row("reactions", strconv.FormatInt(s.Counts.Reactions, 10)).
			Row("verifications", strconv.FormatInt(s.Counts.Verifications, 10)).
			Row("links", strconv.FormatInt(s.Counts.Links, 10)).
			Row("user_data", strconv.FormatInt(s.Counts.UserData, 10)).
			String()))
	b.WriteString("\n")

	casts := newTable("timestamp", "hash", "parent", "text")
	for _, c := range s.Casts {
		casts.Row(formatTime(c.Timestamp), c.Hash, orDash(c.ParentHash), helpers.Truncate(c.Text, textWidth))
	}
	b.WriteString(section("Recent casts", helpers.TableColor("casts"), casts.String()))
	b.WriteString("\n")

	reactions := newTable("timestamp", "type", "target fid", "target hash")
	for _, r := range s.Reactions {
		target := "-"
		if r.TargetFid != 0 {
			target = strconv.FormatInt(r.TargetFid, 10)
		}
		reactions.Row(formatTime(r.Timestamp), orDash(r.Type), target, orDash(r.TargetHash))
	}
	b.WriteString(section("Recent reactions", helpers.TableColor("reactions"), reactions.String()))
	b.WriteString("\n")

	verifications := newTable("timestamp", "address")
	for _, v := range s.Verifications {
		verifications.Row(formatTime(v.Timestamp), orDash(v.Address))
	}
	b.WriteString(section("Recent verifications", helpers.TableColor("verifications"), verifications.String()))
	b.WriteString("\n")

	links := newTable("timestamp", "type", "target fid")
	for _, l := range s.Links {
		target := "-"
		if l.TargetFid != 0 {
			target = strconv.FormatInt(l.TargetFid, 10)
		}
		links.Row(formatTime(l.Timestamp), orDash(l.Type), target)
	}
	b.WriteString(section("Recent links", helpers.TableColor("links"), links.String()))
	b.WriteString("\n")

	userData := newTable("timestamp", "type", "value")
	for _, u := range s.UserData {
		userData.Row(formatTime(u.Timestamp), orDash(u.Type), helpers.Truncate(u.Value, textWidth))
	}
	b.WriteString(section("Profile fields", helpers.TableColor("user_data"), userData.String()))
	b.WriteString("\n")

	if s.LatestRun == nil {
		b.WriteString(section("Latest sync run", "#888888", mutedStyle.Render("never synced")))
	} else {
		r := s.LatestRun
		run := newTable("run", "status", "started", "finished", "error").
			Row(r.ID.String(), r.Status, formatTime(r.StartedAt), formatTime(r.FinishedAt), orDash(r.Error))
		b.WriteString(section("Latest sync run", "#888888", run.String()))
	}
	b.WriteString("\n")

	return b.String()
}
