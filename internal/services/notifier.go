package services

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"taskmanager/internal/models"
)

// Notifier is told about newly persisted records. Implementations log
// delivery problems themselves; a failed notification never fails the request.
type Notifier interface {
	TaskCreated(ctx context.Context, t *models.Task)
	SubTaskCreated(ctx context.Context, st *models.SubTask)
}

type NopNotifier struct{}

func (NopNotifier) TaskCreated(context.Context, *models.Task)       {}
func (NopNotifier) SubTaskCreated(context.Context, *models.SubTask) {}

// MultiNotifier fans out to every configured sink.
type MultiNotifier []Notifier

func (m MultiNotifier) TaskCreated(ctx context.Context, t *models.Task) {
	for _, n := range m {
		n.TaskCreated(ctx, t)
	}
}

func (m MultiNotifier) SubTaskCreated(ctx context.Context, st *models.SubTask) {
	for _, n := range m {
		n.SubTaskCreated(ctx, st)
	}
}

const deadlineLayout = "2006-01-02 15:04 MST"

// formatTask renders an HTML snippet (Telegram parse_mode=HTML and e-mail bodies).
func formatTask(prefix string, t *models.Task) string {
	return prefix + "\n" +
		"• <b>" + html.EscapeString(t.Title) + "</b> (#" + strconv.FormatInt(t.ID, 10) + ")\n" +
		"• Status: <code>" + string(t.Status) + "</code>\n" +
		"• Deadline: <code>" + t.Deadline.Format(deadlineLayout) + "</code>"
}

func formatSubTask(prefix string, st *models.SubTask) string {
	parent := "—"
	if st.TaskID != nil {
		parent = fmt.Sprintf("task #%d", *st.TaskID)
	}
	return prefix + "\n" +
		"• <b>" + html.EscapeString(st.Title) + "</b> (#" + strconv.FormatInt(st.ID, 10) + ")\n" +
		"• Parent: <code>" + parent + "</code>\n" +
		"• Status: <code>" + string(st.Status) + "</code>\n" +
		"• Deadline: <code>" + st.Deadline.Format(deadlineLayout) + "</code>"
}
