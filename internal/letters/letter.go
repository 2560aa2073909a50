// Package letters renders sanction letters as PDF documents for the letters
// bucket.
package letters

import (
	"fmt"

	"lendflow/internal/models"
)

// Render produces the PDF bytes for one sanction.
func Render(sanction models.Sanction, user models.User) []byte {
	lines := []string{
		"SANCTION LETTER",
		"",
		fmt.Sprintf("Date: %s", sanction.IssuedAt.Format("02 January 2006")),
		fmt.Sprintf("Reference: %s", sanction.ID),
		"",
		fmt.Sprintf("Dear %s,", user.Name),
		"",
		fmt.Sprintf("%s is pleased to sanction your home loan on the following terms:", sanction.LFIName),
		"",
		fmt.Sprintf("    Sanctioned amount: INR %.2f", sanction.Amount),
		fmt.Sprintf("    Interest rate:     %.2f%% p.a.", sanction.InterestRate),
		fmt.Sprintf("    Tenure:            %d months", sanction.TenureMonths),
		"",
		"This sanction is valid for 90 days from the date of issue and is",
		"subject to the property's legal and technical clearance.",
		"",
		fmt.Sprintf("For %s", sanction.LFIName),
		"Authorised Signatory",
	}
	return renderPDF(lines)
}

// ObjectKey is where a sanction's letter lives in the letters bucket.
func ObjectKey(sanctionID string) string {
	return fmt.Sprintf("sanctions/%s.pdf", sanctionID)
}
