package services

import (
	"encoding/base64"
	"fmt"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/c4stleone/SOLHeaven/core/escrow"
)

const defaultQRSize = 256

// FundingService produces payment info for jobs awaiting their escrow
// deposit: the vault address, the raw payment URI, and a QR code for the
// excluded wallet layer to render. Amounts are base units only.
type FundingService struct {
	qrSize int
}

// NewFundingService creates a funding service with the default QR size.
func NewFundingService() *FundingService {
	return &FundingService{qrSize: defaultQRSize}
}

// FundingInfo is the payment payload for one job vault.
type FundingInfo struct {
	Address     string `json:"address"`
	Amount      uint64 `json:"amount"`
	URI         string `json:"uri"`
	QRPNGBase64 string `json:"qr_png_base64"`
}

// FundingInfo builds the payment URI and QR code for a job. Only jobs still
// awaiting funding have one.
func (s *FundingService) FundingInfo(job escrow.Job) (*FundingInfo, error) {
	if job.Status != escrow.StatusCreated {
		return nil, escrow.ErrInvalidStatus
	}
	uri := job.Address.String() + "?amount=" + strconv.FormatUint(job.Reward, 10)
	qr, err := qrcode.New(uri, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate funding qr: %w", err)
	}
	png, err := qr.PNG(s.qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode funding qr: %w", err)
	}
	return &FundingInfo{
		Address:     job.Address.String(),
		Amount:      job.Reward,
		URI:         uri,
		QRPNGBase64: base64.StdEncoding.EncodeToString(png),
	}, nil
}
