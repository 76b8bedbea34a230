package mail

import (
	"fmt"
	"sort"

	"github.com/lightmail/lightmail/internal/jmap"
	"github.com/lightmail/lightmail/internal/models"
)

// summaryFromEmail converts a wire email to our EmailSummary model.
func summaryFromEmail(email jmap.Email) models.EmailSummary {
	mailboxIDs := make([]string, 0, len(email.MailboxIDs))
	for id, present := range email.MailboxIDs {
		if present {
			mailboxIDs = append(mailboxIDs, id)
		}
	}
	sort.Strings(mailboxIDs)

	return models.EmailSummary{
		ID:         email.ID,
		MailboxIDs: mailboxIDs,
		Subject:    email.Subject,
		From:       formatAddressList(email.From),
		To:         formatAddressList(email.To),
		CC:         formatAddressList(email.CC),
		ReceivedAt: email.ReceivedAt,
		Preview:    email.Preview,
	}
}

// detailFromEmail converts a wire email to our EmailDetail model, carrying
// over the decoded body values and part order. Body selection happens
// separately.
func detailFromEmail(email jmap.Email) *models.EmailDetail {
	detail := &models.EmailDetail{
		EmailSummary: summaryFromEmail(email),
		BodyValues:   make(map[string]string, len(email.BodyValues)),
	}

	for partID, value := range email.BodyValues {
		detail.BodyValues[partID] = value.Value
	}
	for _, part := range email.TextBody {
		detail.TextPartIDs = append(detail.TextPartIDs, part.PartID)
	}
	for _, part := range email.HTMLBody {
		detail.HTMLPartIDs = append(detail.HTMLPartIDs, part.PartID)
	}

	return detail
}

// formatAddress formats a wire address as a display string.
func formatAddress(address jmap.EmailAddress) string {
	if address.Email == "" {
		return address.Name
	}
	if address.Name != "" {
		return fmt.Sprintf("%s <%s>", address.Name, address.Email)
	}
	return address.Email
}

// formatAddressList formats a list of wire addresses, skipping empty ones.
func formatAddressList(addresses []jmap.EmailAddress) []string {
	result := make([]string, 0, len(addresses))
	for _, address := range addresses {
		formatted := formatAddress(address)
		if formatted != "" {
			result = append(result, formatted)
		}
	}
	return result
}
