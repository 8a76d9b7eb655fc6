package core

import (
	"fmt"
	"strings"
)

// NotificationType classifies a message shown to the user.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyInfo    NotificationType = "info"
	NotifyError   NotificationType = "error"
)

// Notification is the single user-facing message produced per action.
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
	Code    string           `json:"code,omitempty"`
}

// Notification summarizes the upload for the user.
func (s ParseSummary) Notification() Notification {
	switch {
	case s.Error != "":
		return Notification{Type: NotifyError, Message: s.Error, Code: msgEmptyFile.Code}
	case s.ProcessedRows == 0:
		return Notification{Type: NotifyInfo, Message: "No valid data found in the CSV file."}
	case s.SkippedRows > 0:
		return Notification{
			Type:    NotifyInfo,
			Message: fmt.Sprintf("CSV processed: %d valid entries. %d rows skipped.", s.ValidEntries(), s.SkippedRows),
		}
	default:
		return Notification{Type: NotifySuccess, Message: "CSV data uploaded and processed successfully!"}
	}
}

// ErrorNotification converts err into an error notification.
func ErrorNotification(err error) Notification {
	msg := MapError(err)
	return Notification{Type: NotifyError, Message: msg.Message, Code: msg.Code}
}

// LookupNotification describes a successful postal code lookup.
func LookupNotification(code string, entry PostalCodeEntry) Notification {
	return Notification{
		Type:    NotifySuccess,
		Message: fmt.Sprintf("Pincode %s plotted. Stores: %s", code, strings.Join(entry.Stores, ", ")),
	}
}

// SearchNotification describes the outcome of a store search.
func SearchNotification(result SearchResult) Notification {
	if result.Total == 0 {
		return Notification{
			Type:    NotifyError,
			Message: fmt.Sprintf("No stores found matching \"%s\".", result.Query),
			Code:    msgNoStores.Code,
		}
	}
	return Notification{
		Type:    NotifySuccess,
		Message: fmt.Sprintf("%d store(s) found matching \"%s\".", result.Total, result.Query),
	}
}
