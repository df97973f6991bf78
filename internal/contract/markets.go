package contract

// DefaultLoginURL is the shared SSO entry point. A single identity provider
// serves every market, so the login page is audited once per batch rather
// than per market.
const DefaultLoginURL = "https://welcome.lyreco.com/lyreco-customers/login?scope=openid+" +
	"lyreco.contacts.personalInfo%3Awrite%3Aself&client_id=2ddf9463-" +
	"3e1e-462a-9f94-633e1e062ae8&response_type=code&state=4102a88f-" +
	"fec5-46d1-b8d9-ea543ba0a385&redirect_uri=https%3A%2F%2Fshop.lyreco.fr%2F" +
	"oidc-login-callback%2FaHR0cHMlM0ElMkYlMkZzaG9wLmx5cmVjby5mciUyRmZy&" +
	"ui_locales=fr-FR&logo_uri=https%3A%2F%2Fshop.lyreco.fr"

// DefaultMarkets returns the built-in market catalog. Config-file entries
// merge over this map, so callers always get a fresh copy.
func DefaultMarkets() map[string]map[string]string {
	return map[string]map[string]string{
		"France": {
			"home":     "https://shop.lyreco.fr/fr",
			"category": "https://shop.lyreco.fr/fr/list/001001/papier-et-enveloppes/papier-blanc",
			"product":  "https://shop.lyreco.fr/fr/product/157.796/papier-blanc-a4-lyreco-multi-purpose-80-g-ramette-500-feuilles",
		},
		"UK": {
			"home":     "https://shop.lyreco.co.uk/",
			"category": "https://shop.lyreco.co.uk/en/list/001001/paper-envelopes/white-office-paper",
			"product":  "https://shop.lyreco.co.uk/en/product/159.543/lyreco-white-a4-80gsm-copier-paper-box-of-5-reams-5x500-sheets-of-paper",
		},
		"Ireland": {
			"home":     "https://shop.lyreco.ie/en",
			"category": "https://shop.lyreco.ie/en/list/001001/paper-envelopes/white-office-paper",
			"product":  "https://shop.lyreco.ie/en/product/159.543/lyreco-white-a4-80gsm-copier-paper-box-of-5-reams-5x500-sheets-of-paper",
		},
		"Italy": {
			"home":     "https://shop.lyreco.it/it",
			"category": "https://shop.lyreco.it/it/list/001001/carte-e-buste/carta-bianca",
			"product":  "https://shop.lyreco.it/it/product/4.016.865/carta-bianca-lyreco-a4-75-g-mq-risma-500-fogli",
		},
		"Poland": {
			"home":     "https://shop.lyreco.pl/pl",
			"category": "https://shop.lyreco.pl/pl/list/001001/papier-i-koperty/papiery-biale-uniwersalne",
			"product":  "https://shop.lyreco.pl/pl/product/159.543/papier-do-drukarki-lyreco-copy-a4-80-g-m-5-ryz-po-500-arkuszy",
		},
		"Denmark": {
			"home":     "https://shop.lyreco.dk/da",
			"category": "https://shop.lyreco.dk/da/list/001001/papir-kuverter/printerpapir-kopipapir",
			"product":  "https://shop.lyreco.dk/da/product/159.543/kopipapir-til-sort-hvid-print-lyreco-copy-a4-80-g-pakke-a-5-x-500-ark",
		},
	}
}
