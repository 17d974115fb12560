package public

import (
	"strings"

	"github.com/mazraa-market/internal/service"
)

// CaptchaPayloadRequest carries the image challenge answer. Scenes that are
// switched off accept an empty payload; the service decides per config.
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

func (r CaptchaPayloadRequest) toServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(r.CaptchaID),
		CaptchaCode: strings.TrimSpace(r.CaptchaCode),
	}
}
