package models

// NFT is one on-ledger token from a wallet's account_nfts listing. Field
// casing follows the ledger API, which the backend passes through as-is.
type NFT struct {
	NFTokenID    string `json:"NFTokenID"`
	Issuer       string `json:"Issuer"`
	URI          string `json:"URI,omitempty"`
	Flags        int    `json:"Flags,omitempty"`
	NFTokenTaxon int    `json:"NFTokenTaxon,omitempty"`
	Serial       int    `json:"nft_serial,omitempty"`
}
