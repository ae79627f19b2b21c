package sessions

import "crypto/rand"

const (
	adminPasswordLength  = 8
	adminPasswordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// generateAdminPassword returns a random uppercase-alnum shared secret for a
// newly created session.
func generateAdminPassword() string {
	buf := make([]byte, adminPasswordLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic("sessions: read random: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = adminPasswordCharset[int(b)%len(adminPasswordCharset)]
	}
	return string(buf)
}
