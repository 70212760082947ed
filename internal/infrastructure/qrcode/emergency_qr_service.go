package qrcode

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"vidaqr/internal/usecase/interfaces"
)

// EmergencyQRService issues the public emergency URL encoded into a profile's
// QR code. The URL points at the read-only emergency view, so anyone scanning
// the code reaches the profile without authenticating.
type EmergencyQRService struct {
	baseURL string
}

var _ interfaces.IQRCodeService = (*EmergencyQRService)(nil)

func NewEmergencyQRService(publicBaseURL string) *EmergencyQRService {
	return &EmergencyQRService{baseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")}
}

func (s *EmergencyQRService) GenerateQRCode(ctx context.Context, profileID string) (string, error) {
	if s == nil || s.baseURL == "" {
		log.Printf("[qrcode][service] missing public base url")
		return "", interfaces.ErrQRGenerationFailed
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return "", interfaces.ErrQRGenerationFailed
	}
	if _, err := url.ParseRequestURI(s.baseURL); err != nil {
		log.Printf("[qrcode][service] invalid public base url url=%s err=%v", s.baseURL, err)
		return "", interfaces.ErrQRGenerationFailed
	}

	qrURL := fmt.Sprintf("%s/e/%s", s.baseURL, url.PathEscape(profileID))
	log.Printf("[qrcode][service] qr code issued profile_id=%s url=%s", profileID, qrURL)
	return qrURL, nil
}
