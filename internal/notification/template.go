package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/shopspring/decimal"
)

const approvalSubject = "Expense Approval Required"

var approvalTemplate = template.Must(template.New("approval").Funcs(template.FuncMap{
	"text": func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	},
	"money": func(d *decimal.Decimal) string {
		if d == nil {
			return "-"
		}
		return d.StringFixed(2)
	},
	"date": func(e domain.ExpenseRecord) string {
		if e.ExpenseDate == nil {
			return "-"
		}
		return e.ExpenseDate.Format(dto.DateLayout)
	},
}).Parse(`<h3>New Expense Submitted</h3>
<p><b>Submitted by:</b> {{.SubmittedBy}}</p>
<p><b>Date:</b> {{date .Expense}}</p>
<p><b>Client:</b> {{.Expense.Client}}</p>
<p><b>Office:</b> {{.Expense.OfficeName}}</p>
<p><b>Head:</b> {{.Expense.Head}} / {{.Expense.Subhead}}</p>
<p><b>From:</b> {{text .Expense.FromLocation}} <b>To:</b> {{text .Expense.ToLocation}}</p>
<p><b>AWB:</b> {{text .Expense.AWB}}</p>
<p><b>Amount:</b> {{money .Expense.Amount}}</p>
<p><b>Remark:</b> {{text .Expense.Remark}}</p>
<br>
<a href="{{.ApproveURL}}" style="padding:10px 15px;background:green;color:white;text-decoration:none;">APPROVE</a>
&nbsp;&nbsp;
<a href="{{.RejectURL}}" style="padding:10px 15px;background:red;color:white;text-decoration:none;">REJECT</a>
`))

// renderApprovalEmail renders the HTML body of an approval request.
func renderApprovalEmail(n domain.ApprovalNotification) (string, error) {
	var buf bytes.Buffer
	if err := approvalTemplate.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("rendering approval email: %w", err)
	}
	return buf.String(), nil
}
