package models

// ElektrikPositionen is the fixed electrician material catalogue. Invoice
// positions must name one of these; prices live in ElektrikPreis.
var ElektrikPositionen = []string{
	"Hauptleitungsabzweigklemmen 35mm",
	"Kabelschellen Metall",
	"Kabelkanal 10x60mm",
	"Kabelkanal 30x30mm",
	"Kabelkanal 60x60mm",
	"Mantellleitung NYY-J 5x16qmm",
	"Mantellleitung NYM-J 5x16qmm",
	"Mantellleitung NYY-J 1x16qmm",
	"Mantellleitung NYM-J 1x16qmm",
	"Mantellleitung NYY-J 5x10qmm",
	"Mantellleitung NYM-J 5x10qmm",
	"Mantellleitung NYY-J 5x6qmm",
	"Mantellleitung NYM-J 5x6qmm",
	"Mantellleitung NYY-J 5x4qmm",
	"Mantellleitung NYM-J 5x4qmm",
	"Mantellleitung NYM-J 5x2.5qmm",
	"Mantellleitung NYM-J 3x2.5qmm",
	"Mantellleitung NYM-J 5x1.5qmm",
	"H07-VK 16mm² sw",
	"H07-VK 16mm² bl",
	"H07-VK 16mm² gn/ge",
	"H07-VK 10mm² sw",
	"H07-VK 10mm² bl",
	"H07-VK 10mm² gn/ge",
	"H07-VK 4mm² sw",
	"H07-VK 4mm² bl",
	"H07-VK 4mm² gn/ge",
	"H07-VK 2.5mm² sw",
	"H07-VK 2.5mm² bl",
	"H07-VK 2.5mm² gn/ge",
	"Leitungsschutzschalter 3polig B16",
	"Leitungsschutzschalter 3polig B20",
	"Leitungsschutzschalter 3polig B25",
	"Leitungsschutzschalter 3polig B32",
	"Leitungsschutzschalter 3polig B40",
	"Leitungsschutzschalter 1polig B10",
	"Leitungsschutzschalter 1polig B16",
	"Leitungsschutzschalter 1polig B20",
	"Leitungsschutzschalter 1polig B25",
	"SLS  3polig E35A",
	"SLS  3polig E50A",
	"SLS  3polig E63A",
	"Überspannungsschutz (Kombiableiter Phasenschiene)",
	"Überspannungsschutz (Kombiableiter Hutschiene)",
	"Hauptschalter 3x63A",
	"Fehlerstromschutzschalter 4polig 40A/30mA",
	"FI/LS 2polig 16A/30mA",
	"FI/LS 2polig 25A/30mA",
	"FI/LS 4polig 16A/30mA",
	"FI/LS 4polig 25A/30mA",
	"Kammschiene 3phasig",
	"Kammschiene 3phasig (N)",
	"Phoenixkontakt-Klemmen PE/L/NT",
	"Phoenixkontakt-Klemmen L/L",
	"Phoenixkontakt-Einspeiseklemme N",
	"Kupferschiene N",
	"Phoenixkontakt-Einspeiseklemme N Seitendeckel",
	"Phoenixkontakt-Stufenklemmen",
	"Phoenixkontakt-Klemmen Seitendeckel grau",
	"Endkappen Kammschiene",
	"Berührungsschutz Kammschiene",
	"Klemmblock Hutschiene N",
	"Klemmblock Hutschiene PE",
	"Installationsklemmen (-4mm²)",
	"Installationsklemmen (-6mm²)",
	"Installationsklemmen (-10mm²)",
	"Hutschienenhalter Installationsklemmen",
	"Aufputz-Abzweigdosen",
}
