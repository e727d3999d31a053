package service

// ConfirmationKeyGenerator produces the random token mailed to a new
// registrant to prove control of the address. The token is independent of
// every user attribute.
type ConfirmationKeyGenerator interface {
	GenerateKey() (string, error)
}
