package model

// AccessGrant pairs a purchasing email with its current redeemable code.
// There is at most one live code per email; a later purchase replaces it.
type AccessGrant struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Ctime int64  `json:"ctime"`
	Mtime int64  `json:"mtime"`
}
