package config

// Policy carries the scoring and data-cleanup tables that are policy, not
// code: monthly quota per region, legislative production weights, the vendor
// alias table and the speech-topic blacklist. They ship with compiled-in
// defaults and can be overridden through the YAML config file so the tables
// can be revised without a release.
type Policy struct {
	// MonthlyQuotas maps two-letter region codes to the monthly expense
	// allowance. Source: Chamber of Deputies quota table, 2025 values.
	MonthlyQuotas map[string]float64 `koanf:"monthly_quotas"`

	// DefaultMonthlyQuota applies to unknown or empty region codes.
	DefaultMonthlyQuota float64 `koanf:"default_monthly_quota"`

	// ProductionTargetPerMonth is the weighted production points per active
	// month that earns the maximum production subscore.
	ProductionTargetPerMonth float64 `koanf:"production_target_per_month"`

	ProductionWeights ProductionWeights `koanf:"production_weights"`

	// VendorAliases maps normalized (uppercased, trimmed) supplier names to
	// their canonical identity. Covers suppliers that appear in the expense
	// records under rebranded names, abbreviations or with a missing fiscal id.
	VendorAliases map[string]VendorAlias `koanf:"vendor_aliases"`

	// TopicBlacklist lists normalized speech keywords that carry no topical
	// signal: procedural vocabulary, institution names, vague sentiment terms.
	TopicBlacklist []string `koanf:"topic_blacklist"`

	// TopicLimit caps the number of topics attached per politician.
	TopicLimit int `koanf:"topic_limit"`
}

// ProductionWeights defines the per-tier weights for legislative production
// points. Instruments are bucketed by type; each tier weights the principal
// proponent and co-signers differently.
type ProductionWeights struct {
	HighImpactTypes   []string `koanf:"high_impact_types"`
	HighProponent     float64  `koanf:"high_proponent"`
	HighCoSigner      float64  `koanf:"high_cosigner"`
	MediumImpactTypes []string `koanf:"medium_impact_types"`
	MediumProponent   float64  `koanf:"medium_proponent"`
	MediumCoSigner    float64  `koanf:"medium_cosigner"`
	OtherProponent    float64  `koanf:"other_proponent"`
	OtherCoSigner     float64  `koanf:"other_cosigner"`
}

// VendorAlias is the canonical identity a noisy supplier row resolves to.
type VendorAlias struct {
	FiscalID string `koanf:"fiscal_id"`
	Name     string `koanf:"name"`
}

// DefaultPolicy returns the built-in policy tables.
func DefaultPolicy() Policy {
	return Policy{
		MonthlyQuotas: map[string]float64{
			"AC": 50426.26, "AL": 46737.90, "AM": 49363.92, "AP": 49168.58,
			"BA": 44804.65, "CE": 48245.57, "DF": 36582.46, "ES": 43217.71,
			"GO": 41300.86, "MA": 47945.49, "MG": 41886.51, "MS": 46336.64,
			"MT": 45221.83, "PA": 48021.25, "PB": 47826.36, "PE": 47470.60,
			"PI": 46765.57, "PR": 44665.66, "RJ": 41553.77, "RN": 48525.79,
			"RO": 49466.29, "RR": 51406.33, "RS": 46669.70, "SC": 45671.58,
			"SE": 45933.06, "SP": 42837.33, "TO": 45297.41,
		},
		DefaultMonthlyQuota:      40000.0,
		ProductionTargetPerMonth: 2.0,
		ProductionWeights: ProductionWeights{
			HighImpactTypes:   []string{"PEC", "PL", "PLC", "PLP"},
			HighProponent:     1.0,
			HighCoSigner:      0.2,
			MediumImpactTypes: []string{"PDC", "PRC", "MPV"},
			MediumProponent:   0.5,
			MediumCoSigner:    0.1,
			OtherProponent:    0.05,
			OtherCoSigner:     0.01,
		},
		VendorAliases: map[string]VendorAlias{
			"TAM":                     {FiscalID: "02012862000160", Name: "LATAM AIRLINES"},
			"LATAM AIRLINES BRASIL":   {FiscalID: "02012862000160", Name: "LATAM AIRLINES"},
			"LATAM LINHAS AEREAS S.A": {FiscalID: "02012862000160", Name: "LATAM AIRLINES"},
			"CIA AEREA - TAM":         {FiscalID: "02012862000160", Name: "LATAM AIRLINES"},
			"GOL":                     {FiscalID: "07575651000159", Name: "GOL"},
			"GOL LINHAS AEREAS":       {FiscalID: "07575651000159", Name: "GOL"},
			"AZUL":                    {FiscalID: "09296295000160", Name: "AZUL"},
			"AZUL LINHAS AEREAS":      {FiscalID: "09296295000160", Name: "AZUL"},
		},
		TopicBlacklist: []string{
			"ORIENTACAO DE BANCADA", "REQUERIMENTO DE URGENCIA", "ENCAMINHAMENTO DE VOTACAO",
			"DISCUSSAO", "QUESTAO DE ORDEM", "VOTO FAVORAVEL", "VOTO CONTRARIO",
			"FAVORAVEL", "CONTRARIO", "REQUERIMENTO DE DESTAQUE DE VOTACAO EM SEPARADO",
			"SUBSTITUTIVO", "SEGUNDO TURNO", "PAUTA (PROCESSO LEGISLATIVO)", "DISPOSITIVO LEGAL",
			"EMENDA DE PLENARIO", "PARECER (PROPOSICAO LEGISLATIVA)", "PARECER DO RELATOR",
			"RELATOR", "PROJETO DE LEI DE CONVERSAO", "REQUERIMENTO", "APROVACAO", "ALTERACAO",
			"PROPOSTA DE EMENDA A CONSTITUICAO", "PROJETO DE LEI COMPLEMENTAR",
			"PROJETO DE LEI ORDINARIA", "MEDIDA PROVISORIA", "PROJETO DE LEI DO CONGRESSO NACIONAL",
			"MPV 1095/2021", "DEPUTADO FEDERAL", "PRESIDENTE DA REPUBLICA",
			"EX-PRESIDENTE DA REPUBLICA", "GOVERNO FEDERAL", "GOVERNO", "GOVERNO ESTADUAL",
			"GOVERNADOR", "CONGRESSO NACIONAL", "SENADO FEDERAL", "SUPREMO TRIBUNAL FEDERAL (STF)",
			"PODER JUDICIARIO", "BASE DE APOIO POLITICO", "MINORIA PARLAMENTAR",
			"MAIORIA PARLAMENTAR", "OPOSICAO POLITICA", "VEREADOR",
			"PARTIDO LIBERAL (PL)", "PARTIDO DOS TRABALHADORES (PT)", "PARTIDO NOVO (NOVO)",
			"FEDERACAO PSOL REDE", "FEDERACAO BRASIL DA ESPERANCA (FE BRASIL)", "BLOCO PARLAMENTAR",
			"CRITICA", "DEFESA", "HOMENAGEM", "MANIFESTACAO", "ATUACAO",
			"ATUACAO PARLAMENTAR", "ANIVERSARIO DE EMANCIPACAO POLITICA", "CRIACAO",
		},
		TopicLimit: 20,
	}
}
