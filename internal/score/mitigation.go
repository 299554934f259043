package score

import (
	"fmt"
	"strings"

	"github.com/verilex/verilex/internal/model"
)

// complianceMitigation suggests a remediation for a compliance gap, keyed by
// regulation family
func complianceMitigation(it model.ComplianceItem) string {
	reg := strings.ToLower(it.RegulationID)
	switch {
	case strings.Contains(reg, "gdpr"), strings.Contains(reg, "dpa"):
		return "Engage the data protection officer and review data processing agreements against GDPR requirements."
	case strings.Contains(reg, "iso27001"):
		return "Schedule an audit with a certified ISO27001 auditor and review the information security management system."
	case strings.Contains(reg, "soc2"):
		return "Contact the SOC2 auditor to schedule a Type II assessment and review security controls."
	default:
		return fmt.Sprintf("Review the %s requirement and develop a compliance plan; consult legal counsel if needed.", it.Requirement)
	}
}

// deadlineMitigation suggests an action for an approaching or missed deadline
func deadlineMitigation(r model.RenewalDate) string {
	switch {
	case r.DaysUntil < 0:
		return fmt.Sprintf("Deadline overdue: contact the relevant parties immediately about %s.", r.Description)
	case r.DaysUntil <= 7:
		return fmt.Sprintf("Take immediate action: complete %s within the next week.", r.Description)
	default:
		return fmt.Sprintf("Schedule completion of %s within %d days and set reminders.", r.Description, r.DaysUntil)
	}
}

// obligationMitigation suggests an action for an unmet obligation
func obligationMitigation(o model.Obligation) string {
	switch o.Status {
	case model.ObligationOverdue:
		return fmt.Sprintf("Contact %s immediately regarding the overdue obligation: %s.", partyOrDefault(o), o.Requirement)
	case model.ObligationUnclear:
		return fmt.Sprintf("Seek clarification from legal counsel regarding: %s.", o.Requirement)
	default:
		return fmt.Sprintf("Monitor %s and confirm timely completion by %s.", o.Requirement, partyOrDefault(o))
	}
}

func partyOrDefault(o model.Obligation) string {
	if o.ResponsibleParty == "" {
		return "the responsible party"
	}
	return o.ResponsibleParty
}
