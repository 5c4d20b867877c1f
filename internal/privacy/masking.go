package privacy

import (
	"strings"
)

// MaskPhoneNumber masks a phone number showing only the last 4 digits.
// Example: "5511999887766" -> "*********7766"
func MaskPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if len(phone) <= 5 {
			return "+" + strings.Repeat("*", len(phone)-1)
		}
		return "+" + strings.Repeat("*", len(phone)-5) + phone[len(phone)-4:]
	}

	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// MaskJID masks the number part of a provider JID while keeping the suffix
// visible. Example: "5511999887766@s.whatsapp.net" -> "*********7766@s.whatsapp.net"
func MaskJID(jid string) string {
	if jid == "" {
		return ""
	}

	if at := strings.Index(jid, "@"); at >= 0 {
		return MaskPhoneNumber(jid[:at]) + jid[at:]
	}
	return MaskPhoneNumber(jid)
}
