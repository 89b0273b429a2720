package model

import "strings"

// Listing is one property record. JSON names follow the public wire format;
// pointer fields are nullable and serialize as null.
type Listing struct {
	IlanNo          int64     `json:"ilanNo"`
	IlanTarihi      *DateTime `json:"ilanTarihi"`
	Baslik          string    `json:"baslik"`
	EmlakTipi       *string   `json:"emlakTipi"`
	Fiyat           *int64    `json:"fiyat"`
	Detay           string    `json:"detay"`
	M2              *int      `json:"m2"`
	Il              *string   `json:"il"`
	Ilce            *string   `json:"ilce"`
	Mahalle         *string   `json:"mahalle"`
	SahibindenNo    *int64    `json:"sahibindenNo"`
	SahibiAd        string    `json:"sahibiAd"`
	SahibiTel       string    `json:"sahibiTel"`
	SahibindenTarih *Date     `json:"sahibindenTarih"`
	Ada             *int      `json:"ada"`
	Parsel          *int      `json:"parsel"`
	OdaSayisi       string    `json:"odaSayisi"`
	BinaYasi        string    `json:"binaYasi"`
	BulunduguKat    *int      `json:"bulunduguKat"`
	KatSayisi       *int      `json:"katSayisi"`
	Isitma          string    `json:"isitma"`
	BanyoSayisi     *int      `json:"banyoSayisi"`
	Balkon          *bool     `json:"balkon"`
	Asansor         *bool     `json:"asansor"`
	Esyali          *bool     `json:"esyali"`
	Aidat           *int      `json:"aidat"`
	Fotolar         string    `json:"fotolar"` // comma-joined photo URLs
	Gizli           bool      `json:"gizli"`   // hidden from anonymous clients
}

// Photos splits Fotolar into trimmed, non-empty URLs.
func (l *Listing) Photos() []string {
	var urls []string
	for _, u := range strings.Split(l.Fotolar, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// SetPhotos joins urls into Fotolar, dropping blanks.
func (l *Listing) SetPhotos(urls []string) {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}
	l.Fotolar = strings.Join(kept, ",")
}

// Ptr returns a pointer to v. Handy for filling nullable fields.
func Ptr[T any](v T) *T {
	return &v
}
