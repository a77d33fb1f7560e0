// Package messages holds all roasts and message templates. No database
// needed, edit this file to change the copy.
package messages

import (
	"fmt"
	"math/rand"
)

var Roasts = []string{
	"Abe gadhe, DSA kar varna Swiggy pe delivery karega zindagi bhar! 🛵",
	"Oye nikamme! Netflix band kar, LeetCode khol! Nahi toh jobless marega! 💀",
	"Tere dost Google join kar rahe, tu abhi bhi Two Sum mein atka hai ullu! 😭",
	"DSA nahi aati? Koi baat nahi, Chai Ka Thela khol le nalayak! ☕",
	"Ek problem bhi solve nahi karta? Teri toh kismat hi kharab hai bhai! 🏫",
	"Array reverse karna nahi aata? Teri life reverse ho jayegi bekaar! 🔄",
	"Bro itna useless kaun hota hai? Thoda toh padhle kamina! 🙈",
	"Teri struggle story LinkedIn pe viral hogi... rejection ke saath! 😅",
	"Placement season mein tujhe dekhke HR log bhi hasenge! 🤣",
	"Recursion samajh nahi aata? Tu khud ek infinite loop hai bc! 🔁",
	"Aaj bhi kuch nahi kiya? Teri productivity toh COVID se bhi zyada khatarnak hai! 🦠",
	"Tere resume mein sirf WhatsApp forward karne ka experience hai kya? 📱",
	"DSA Dhurandhar banne aaya tha, DSA Bekaar ban gaya! 🤡",
}

var Insults = []string{
	"You're not just behind, you're in a completely different race.",
	"Your LinkedIn says 'Open to Work' but your LeetCode says 'Never Worked'.",
	"Even ChatGPT can't help someone who doesn't try.",
	"Your future self will be very disappointed.",
	"The only thing consistent about you is your inconsistency.",
	"Your competition thanks you for not showing up.",
	"Dreams don't work unless you do.",
	"You're not lazy, you're just on energy-saving mode... permanently.",
}

func RandomRoast() string {
	return Roasts[rand.Intn(len(Roasts))]
}

func RandomInsult() string {
	return Insults[rand.Intn(len(Insults))]
}

// WhatsAppMessage renders the nudge sent over WhatsApp.
func WhatsAppMessage(userName, siteURL string) string {
	return fmt.Sprintf(`🔥 *Wake up, %s!* 🔥

*REALITY:* %s
*TRUTH:* %s

Stop scrolling and start coding! 🚀

🎯 *Goal:* 2+ Medium problems
💻 *Solve:* https://leetcode.com/problemset/
🌐 *Track:* %s

*Competition is winning. GET TO WORK!* 💪
---
DSA Grinders 💀`, userName, RandomRoast(), RandomInsult(), siteURL)
}

func EmailSubject(userName string) string {
	return fmt.Sprintf("🚨 OYE %s! DSA KARLE! - Daily Reality Check", userName)
}

// EmailHTML renders the nudge email body. The logo is referenced by the
// cid:logo inline attachment the mailer embeds.
func EmailHTML(userName, siteURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; text-align: center; background-color: #0f172a; color: #e2e8f0; border-radius: 10px;">
			<img src="cid:logo" alt="DSA Grinders Logo" style="width: 120px; margin-bottom: 20px; border-radius: 20px;" />

			<h2 style="color: #ffffff;">Oye %s! 👋</h2>

			<div style="background-color: #1e293b; border-left: 4px solid #ef4444; padding: 24px; border-radius: 8px; margin-bottom: 24px;">
				<p style="margin: 0; font-size: 18px; color: #fecaca; font-style: italic; line-height: 1.6;">%s</p>
			</div>

			<p style="font-size: 15px; color: #94a3b8; line-height: 1.6;">%s</p>

			<div style="margin: 30px 0;">
				<a href="https://leetcode.com/problemset/" style="background-color: #ef4444; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 16px;">
					LEETCODE KHOL ABHI! 🚀
				</a>
			</div>

			<p style="font-size: 14px; color: #64748b;">
				Track your grind: <a href="%s" style="color: #60a5fa;">%s</a>
			</p>

			<p style="font-size: 12px; color: #475569; margin-top: 30px;">
				Tu ye mail isiliye padh raha hai kyunki tune sign up kiya tha. Ab bhugat! 😈
			</p>
		</div>`, userName, RandomRoast(), RandomInsult(), siteURL, siteURL)
}
