package bot

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"karma-bot/internal/service"
)

// Reply events. Success votes get a direction-specific event, every
// pipeline rejection maps to exactly one of the failure events.
const (
	eventRateUp               = "rateUp"
	eventRateDown             = "rateDown"
	eventPretenderNotFound    = "pretenderNotFound"
	eventVoterHasNegativeRate = "voterHasNegativeRate"
	eventSelfUp               = "selfUp"
	eventWrong                = "wrong"
)

// rateUpdateData feeds the vote reply templates. Name fields arrive
// pre-escaped (see displayName).
type rateUpdateData struct {
	Voter     ratedUser
	Pretender ratedUser
}

type ratedUser struct {
	Name string
	Rate string
}

var replies = template.Must(template.New("replies").Parse(`
{{- define "rateUp" -}}
{{.Voter.Name}} (<b>{{.Voter.Rate}}</b>) поднял карму {{.Pretender.Name}} до <b>{{.Pretender.Rate}}</b> 👍
{{- end -}}

{{- define "rateDown" -}}
{{.Voter.Name}} (<b>{{.Voter.Rate}}</b>) опустил карму {{.Pretender.Name}} до <b>{{.Pretender.Rate}}</b> 👎
{{- end -}}

{{- define "pretenderNotFound" -}}
Не нашёл такого участника. Карму можно менять только тем, кто уже писал в чат.
{{- end -}}

{{- define "voterHasNegativeRate" -}}
С кармой не выше нуля голосовать нельзя 😈
{{- end -}}

{{- define "selfUp" -}}
Сам себе карму не накрутишь 😏
{{- end -}}

{{- define "wrong" -}}
Что-то пошло не так. Попробуй ещё раз.
{{- end -}}

{{- define "currencyList" -}}
💱 <b>Курсы ЦБ РФ</b>
{{range .}}• {{.Name}}: <b>{{.Value}}</b> ₽
{{end}}
{{- end -}}

{{- define "upworkStatus" -}}
{{if .Alive}}✅ Upwork жив: {{.URL}}{{else}}🔥 Upwork лежит: {{.URL}}{{end}}
{{- end -}}
`))

// renderReply executes one named reply template.
func renderReply(event string, data interface{}) (string, error) {
	var b strings.Builder
	if err := replies.ExecuteTemplate(&b, event, data); err != nil {
		return "", fmt.Errorf("render %s: %w", event, err)
	}
	return strings.TrimSpace(b.String()), nil
}

func renderRateUpdate(outcome *service.VoteOutcome) (string, error) {
	event := eventRateDown
	if outcome.RateUp {
		event = eventRateUp
	}
	return renderReply(event, rateUpdateData{
		Voter: ratedUser{
			Name: displayName(outcome.Voter),
			Rate: formatRate(outcome.VoterRate),
		},
		Pretender: ratedUser{
			Name: displayName(outcome.Pretender),
			Rate: formatRate(outcome.PretenderRate),
		},
	})
}

// formatRate prints a rating without trailing zeros: 7 not 7.00, but 6.41
// stays 6.41.
func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const helpText = `ℹ️ <b>Команды</b>
• /up или + в ответ на сообщение — поднять карму автору
• /down или - в ответ — опустить карму
• /up @handle — поднять карму по нику
• /chats — список чатов
• /currency — курсы валют ЦБ РФ
• /upwork — статус Upwork
• /changelog — что нового
• /help — эта подсказка

Вес голоса равен корню из твоей собственной кармы.`

const chatsText = `💬 <b>Наши чаты</b>
• Основной чат — болталка и карма
• Рабочий чат — вакансии и заказы`

const changelogText = `📝 <b>Что нового</b>
• Карма переехала на новый движок
• Вес голоса считается от кармы голосующего
• Добавлены /currency и /upwork`
