package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// AssignmentJob is the JSON payload put on the RabbitMQ queue when a
// task gets (re)assigned. The notify worker renders and sends it.
type AssignmentJob struct {
	To        string `json:"to"`
	TaskID    int64  `json:"task_id"`
	TaskTitle string `json:"task_title"`
	Status    string `json:"status"`
}

var assignmentTpl = template.Must(template.New("assignment").Parse(`<html>
<body>
  <p>You have been assigned a task.</p>
  <p><strong>{{.TaskTitle}}</strong> (status: {{.Status}})</p>
</body>
</html>`))

// Render produces subject, plain-text and HTML bodies for the job.
func (j AssignmentJob) Render() (subject, text, html string, err error) {
	subject = fmt.Sprintf("Task assigned: %s", j.TaskTitle)
	text = fmt.Sprintf("You have been assigned the task %q (status: %s).", j.TaskTitle, j.Status)
	var buf bytes.Buffer
	if err = assignmentTpl.Execute(&buf, j); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}
