package rollbar

import "rollbarreporter/src/level"

// MessageReportBuilder assembles a plain text report. The level defaults
// to INFO.
type MessageReportBuilder struct {
	report  *ReportBuilder
	message string
	level   *level.Level
}

func (b *MessageReportBuilder) WithLevel(l level.Level) *MessageReportBuilder {
	b.level = &l
	return b
}

func (b *MessageReportBuilder) WithLevelText(s string) *MessageReportBuilder {
	return b.WithLevel(level.Parse(s))
}

func (b *MessageReportBuilder) data() messageData {
	return messageData{
		Environment: b.report.client.environment,
		Body:        messageBody{Message: messageText{Body: b.message}},
		Level:       levelOr(b.level, level.INFO),
	}
}

func (b *MessageReportBuilder) Payload() (string, error) {
	return encode(b.report.client, b.data())
}

func (b *MessageReportBuilder) Send() *Delivery {
	return b.report.send(b.data())
}
