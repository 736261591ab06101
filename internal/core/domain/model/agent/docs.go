// Package agent models independent shipping agents: their profile, the
// service areas they cover, wallet counters credited on delivery, and
// payout requests debited from the wallet.
package agent
