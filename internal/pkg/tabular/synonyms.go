// Copyright 2026 Peter Edge
//
// All rights reserved.

package tabular

// Field is a semantic column of a statement table.
type Field string

const (
	FieldSymbol             Field = "symbol"
	FieldISIN               Field = "isin"
	FieldName               Field = "name"
	FieldQuantity           Field = "quantity"
	FieldPrice              Field = "price"
	FieldUnitCost           Field = "unit_cost"
	FieldCurrency           Field = "currency"
	FieldTotalValue         Field = "total_value"
	FieldCategory           Field = "category"
	FieldPositionPercent    Field = "position_percent"
	FieldDailyChangePercent Field = "daily_change_percent"
	FieldSector             Field = "sector"
	FieldDomicile           Field = "domicile"
	FieldUnrealizedGainLoss Field = "unrealized_gain_loss"
)

// AllFields returns every field in column-assignment priority order.
func AllFields() []Field {
	return []Field{
		FieldSymbol,
		FieldISIN,
		FieldName,
		FieldQuantity,
		FieldPrice,
		FieldUnitCost,
		FieldCurrency,
		FieldTotalValue,
		FieldCategory,
		FieldPositionPercent,
		FieldDailyChangePercent,
		FieldSector,
		FieldDomicile,
		FieldUnrealizedGainLoss,
	}
}

// fieldSynonyms are normalized header labels in English, German, French, and Italian.
//
// Labels are stored in NormalizeLabel form: lower case, accents removed,
// punctuation other than "%" and "+" collapsed to single spaces.
var fieldSynonyms = map[Field][]string{
	FieldSymbol: {
		"symbol", "ticker", "ticker symbol", "tickersymbol", "valor", "valoren",
		"valorennummer", "valor nr", "valoren nr", "symbole", "simbolo", "code",
		"kurzel", "wkn", "instrument id",
	},
	FieldISIN: {
		"isin", "isin code", "isin nr", "isin nummer",
	},
	FieldName: {
		"name", "label", "description", "bezeichnung", "beschreibung", "titel",
		"wertpapier", "libelle", "designation", "denomination", "denominazione",
		"descrizione", "instrument", "security", "security name", "titre",
		"security description", "instrument name", "position name",
	},
	FieldQuantity: {
		"quantity", "qty", "shares", "units", "anzahl", "menge", "bestand",
		"stuck", "stueck", "nominal", "nennwert", "quantite", "quantita",
		"nombre", "number of shares", "anzahl nominal", "position quantity",
	},
	FieldPrice: {
		"price", "rate", "kurs", "aktueller kurs", "market price", "last price",
		"close price", "closing price", "cours", "prix", "prezzo", "corso",
		"quote", "current price", "marktpreis", "schlusskurs", "cours actuel",
		"prezzo attuale",
	},
	FieldUnitCost: {
		"cost", "unit cost", "cost price", "average cost", "avg cost",
		"avg price", "average price", "purchase price", "einstandskurs",
		"einstandspreis", "kaufkurs", "durchschnittskurs", "prix de revient",
		"prix d achat", "prezzo di carico", "prezzo medio", "cost basis price",
	},
	FieldCurrency: {
		"currency", "ccy", "cur", "curr", "wahrung", "whg", "devise", "monnaie",
		"valuta", "divisa",
	},
	FieldTotalValue: {
		"total value", "value", "market value", "marktwert", "kurswert", "wert",
		"bewertung", "valeur", "valeur de marche", "valore", "valore di mercato",
		"total", "amount", "betrag", "position value", "gegenwert",
		"valeur totale", "valore totale", "evaluation", "vermogen",
		"value in chf", "value chf", "total chf", "kurswert chf",
	},
	FieldCategory: {
		"category", "type", "asset class", "asset type", "asset category",
		"kategorie", "anlagekategorie", "anlageklasse", "art", "typ",
		"categorie", "classe", "classe d actif", "tipo", "gattung",
		"categoria", "classe di attivo",
	},
	FieldPositionPercent: {
		"%", "weight", "portfolio %", "anteil", "anteil %", "position %",
		"poids", "peso", "allocation", "in %", "% of portfolio", "gewicht",
		"% portfolio", "% vermogen", "% du portefeuille", "% del portafoglio",
	},
	FieldDailyChangePercent: {
		"daily change", "daily change %", "change %", "day change", "% change",
		"chg %", "+", "+ %", "tagesveranderung", "veranderung", "veranderung %",
		"var %", "variation", "variation %", "variazione", "variazione %",
		"perf day", "performance heute", "today %",
	},
	FieldSector: {
		"sector", "sektor", "branche", "industry", "secteur", "settore",
	},
	FieldDomicile: {
		"domicile", "domizil", "fund domicile", "sitz", "domicilio",
	},
	FieldUnrealizedGainLoss: {
		"unrealized gain loss", "unrealized p l", "unrealized pnl", "unrealized",
		"gain loss", "gewinn verlust", "g v", "plus moins value",
		"plus minusvalenza", "performance", "unrealisierter gewinn verlust",
	},
}
