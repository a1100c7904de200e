// Package notify delivers operator notifications. Delivery is fire-and-forget:
// a failed send is logged and never returned to the caller.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/ougirez/canlotto/internal/pkg/logger"
)

type Notifier interface {
	Notify(ctx context.Context, subject, body string)
}

type NotifierFunc func(ctx context.Context, subject, body string)

func (f NotifierFunc) Notify(ctx context.Context, subject, body string) {
	f(ctx, subject, body)
}

// Multi fans every notification out to all non-nil notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, subject, body string) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, subject, body)
		}
	}
}

type Log struct{}

func (Log) Notify(ctx context.Context, subject, body string) {
	logger.Info(ctx, "notification", "subject", subject, "body", body)
}

// Section renders a bold heading followed by v as indented JSON.
func Section(heading string, v interface{}) string {
	var sb strings.Builder
	sb.WriteString("<b>")
	sb.WriteString(escape(heading))
	sb.WriteString("</b>\n<pre>")

	pretty, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		sb.WriteString(escape(fmt.Sprintf("%+v", v)))
	} else {
		sb.Write(pretty)
	}

	sb.WriteString("</pre>\n")
	return sb.String()
}

// Text renders a bold heading followed by preformatted text.
func Text(heading, text string) string {
	return fmt.Sprintf("<b>%s</b>\n<pre>%s</pre>\n", escape(heading), escape(text))
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
