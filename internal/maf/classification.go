package maf

// classificationTerms maps MAF Variant_Classification values to the
// Sequence Ontology term VEP would report. cBioPortal exports do not
// always carry a Consequence column.
var classificationTerms = map[string]string{
	"Missense_Mutation":      "missense_variant",
	"Nonsense_Mutation":      "stop_gained",
	"Nonstop_Mutation":       "stop_lost",
	"Silent":                 "synonymous_variant",
	"Frame_Shift_Del":        "frameshift_variant",
	"Frame_Shift_Ins":        "frameshift_variant",
	"In_Frame_Del":           "inframe_deletion",
	"In_Frame_Ins":           "inframe_insertion",
	"Translation_Start_Site": "start_lost",
	"Splice_Site":            "splice_acceptor_variant",
	"Splice_Region":          "splice_region_variant",
	"3'UTR":                  "3_prime_UTR_variant",
	"5'UTR":                  "5_prime_UTR_variant",
	"3'Flank":                "downstream_gene_variant",
	"5'Flank":                "upstream_gene_variant",
	"Intron":                 "intron_variant",
	"IGR":                    "intergenic_variant",
	"RNA":                    "non_coding_transcript_exon_variant",
}

// ConsequenceTerms returns the Consequence column when present, otherwise
// the SO term implied by Variant_Classification. Unknown classifications
// yield "".
func (a *Annotation) ConsequenceTerms() string {
	if a.Consequence != "" {
		return a.Consequence
	}
	return classificationTerms[a.VariantClassification]
}
