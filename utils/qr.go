package utils

import (
	"encoding/base64"
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/phoenixedu/phoenix_institute/models"
)

// qrPayload is what a scanned credential decodes to. The scan endpoint only
// ever uses uid; id and name are carried for display on the scanner screen.
type qrPayload struct {
	UID  string `json:"uid"`
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

const qrSize = 400

// StudentQRPNG renders a student's scannable credential as a PNG.
func StudentQRPNG(student models.Student) ([]byte, error) {
	payload, err := json.Marshal(qrPayload{
		UID:  student.StudentUID,
		ID:   student.ID,
		Name: student.FirstName + " " + student.LastName,
	})
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(payload), qrcode.Medium, qrSize)
}

// StudentQRDataURL renders the credential as a base64 data URL for inline
// display.
func StudentQRDataURL(student models.Student) (string, error) {
	png, err := StudentQRPNG(student)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
