package domain

const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

const (
	GroupStatusActive    = "ACTIVE"
	GroupStatusCompleted = "COMPLETED"
	GroupStatusPaused    = "PAUSED"
)

const (
	FrequencyWeekly  = "WEEKLY"
	FrequencyMonthly = "MONTHLY"
)

const (
	ContributionStatusPending   = "PENDING"
	ContributionStatusCompleted = "COMPLETED"
	ContributionStatusMissed    = "MISSED"
)

const (
	PayoutStatusPending   = "PENDING"
	PayoutStatusCompleted = "COMPLETED"
	PayoutStatusFailed    = "FAILED"
)

const (
	WalletTxTypeContribution   = "CONTRIBUTION"
	WalletTxTypePayout         = "PAYOUT"
	WalletTxTypeReconciliation = "RECONCILIATION"
)

const (
	NotifTypePaymentConfirmed   = "PAYMENT_CONFIRMED"
	NotifTypePayoutSent         = "PAYOUT_SENT"
	NotifTypeContributionMissed = "CONTRIBUTION_MISSED"
	NotifTypeEliteStatus        = "ELITE_STATUS"
	NotifTypeKYCVerified        = "KYC_VERIFIED"
	NotifTypeGroupMessage       = "GROUP_MESSAGE"
)

const (
	AuditActionEscrowDiscrepancy = "escrow_discrepancy"
	AuditActionEscrowCorrected   = "escrow_auto_corrected"
	AuditActionPaymentCompleted  = "payment_completed"
	AuditActionPayoutSent        = "payout_sent"
	AuditActionKYCVerified       = "kyc_verified"
)

// Currency is the platform currency (Malawi kwacha).
const Currency = "MWK"
