package messaging

// Plantillas de los mensajes enviados por WhatsApp / SMS. Los marcadores {x} se
// reemplazan en Composer; {currency} puede aparecer varias veces.
const (
	tplInvoice = `Bonjour {client_name},

Voici votre facture :

📋 Facture {reference}
📅 Date : {date}

{articles}

💰 Total : {total} {currency}
✅ Payé : {paye} {currency}
⏳ Reste dû : {reste} {currency}

Merci pour votre confiance !
{boutique_name}`

	tplReceipt = `Bonjour {client_name},

Paiement bien reçu !

📋 Reçu {reference}
📅 Date : {date}
💰 Montant : {montant} {currency}
💳 Mode : {mode}

{dettes_impactees}

💵 Nouveau solde : {nouveau_solde} {currency}

Merci !
{boutique_name}`

	tplAmicable = `Bonjour {client_name},

J'espère que tu vas bien ! 😊

Je te rappelle gentiment ton solde en cours :

{dettes_details}

💰 Total à régler : {total_du} {currency}

Merci de régulariser dès que possible 🙏

{boutique_name}`

	tplFirm = `Bonjour {client_name},

Rappel concernant vos échéances en retard :

{dettes_details}

💰 Total à régler : {total_du} {currency}
⚠️ Retard : {jours_retard} jours

Merci de régulariser au plus vite.

{boutique_name}`

	tplDueDate = `Bonjour {client_name},

Petit rappel pour votre échéance du {date_echeance} :

💰 Montant : {montant} {currency}

Merci !
{boutique_name}`
)
