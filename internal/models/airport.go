package models

type AirportRecord struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
}

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
