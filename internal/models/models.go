// Package models holds the shared ledger vocabulary: transaction types and
// hub supply log actions, as stored in postgres and exposed over the API.
package models

// Transaction types. Positive amounts are credits, negative are debits.
const (
	TxTypeBuy                   = "BUY"
	TxTypeSell                  = "SELL"
	TxTypeWithdraw              = "WITHDRAW"
	TxTypeEarn                  = "EARN"
	TxTypeAdjustment            = "ADJUSTMENT"
	TxTypeDonationSent          = "DONATION_SENT"
	TxTypeDonationReceived      = "DONATION_RECEIVED"
	TxTypePurchaseProduct       = "PURCHASE_PRODUCT"
	TxTypeReceiveProductPayment = "RECEIVE_PRODUCT_PAYMENT"
)

// Hub supply log actions. ISSUE is the only action that grows total supply;
// the moves shift points between the reserve and circulating pools, and
// RECONCILE rewrites circulating from the computed sum of balances.
const (
	HubActionIssue             = "ISSUE"
	HubActionMoveToCirculation = "MOVE_TO_CIRCULATION"
	HubActionMoveToReserve     = "MOVE_TO_RESERVE"
	HubActionAdjustMaxSupply   = "ADJUST_MAX_SUPPLY"
	HubActionReconcile         = "RECONCILE"
)
