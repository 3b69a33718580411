package tarkovdev

const offerFields = `
	price
	currency
	priceRUB
	currencyItem { id }
	vendor {
		name
		normalizedName
	}`

const itemsQuery = `{
	items {
		id
		name
		shortName
		normalizedName
		buyFor {` + offerFields + `
		}
		sellFor {` + offerFields + `
		}
	}
}`

const bartersQuery = `{
	barters {
		id
		level
		trader { name }
		requiredItems {
			item {
				id
				name
				shortName
				normalizedName
				buyFor {` + offerFields + `
				}
			}
			count
		}
		rewardItems {
			item {
				id
				name
				shortName
				normalizedName
				sellFor {` + offerFields + `
				}
			}
			count
		}
	}
}`
