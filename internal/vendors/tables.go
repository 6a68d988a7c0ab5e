package vendors

import "regexp"

// Category labels used across hits. The tables below are curated
// allow-lists: an unlisted vendor is invisible by design.
const (
	CategoryChat      = "chat"
	CategoryBooking   = "booking"
	CategoryTracking  = "tracking"
	CategoryConsent   = "consent"
	CategoryEcommerce = "ecommerce"
	CategoryCMS       = "cms"
	CategoryBuilder   = "page-builder"
	CategoryFramework = "frontend-framework"
	CategoryAds       = "advertising"
	CategoryCRO       = "cro"
	CategoryPayments  = "payments"
	CategoryEmailMkt  = "email-marketing"
	CategoryServer    = "server"
	CategoryCDN       = "cdn"
	CategoryGenerator = "generator"
)

// Pattern is one curated vendor entry. Patterns are matched against
// lowercased input, so they are written lowercase.
type Pattern struct {
	Name       string
	Category   string
	Re         *regexp.Regexp
	Confidence float64
}

func pat(name, category, expr string, confidence float64) Pattern {
	return Pattern{Name: name, Category: category, Re: regexp.MustCompile(expr), Confidence: confidence}
}

var chatPatterns = []Pattern{
	pat("intercom", CategoryChat, `widget\.intercom\.io|intercomsettings`, 0.95),
	pat("drift", CategoryChat, `js\.driftt\.com|drift\.load`, 0.95),
	pat("crisp", CategoryChat, `client\.crisp\.chat|\$crisp`, 0.95),
	pat("tawk.to", CategoryChat, `embed\.tawk\.to|tawk_api`, 0.95),
	pat("livechat", CategoryChat, `cdn\.livechatinc\.com|__lc\.license`, 0.9),
	pat("zendesk chat", CategoryChat, `v2\.zopim\.com|zdassets\.com/ekr/snippet`, 0.9),
	pat("tidio", CategoryChat, `code\.tidio\.co`, 0.95),
	pat("hubspot chat", CategoryChat, `js\.hs-scripts\.com|usemessages\.com`, 0.85),
	pat("facebook messenger", CategoryChat, `fb-customerchat|customerchat\.js`, 0.9),
	pat("olark", CategoryChat, `static\.olark\.com`, 0.9),
	pat("smartsupp", CategoryChat, `smartsuppchat\.com`, 0.9),
	pat("freshchat", CategoryChat, `wchat\.freshchat\.com|freshworks\.com/live-chat`, 0.9),
	pat("gorgias", CategoryChat, `config\.gorgias\.chat`, 0.9),
}

var bookingPatterns = []Pattern{
	pat("calendly", CategoryBooking, `calendly\.com`, 0.95),
	pat("acuity scheduling", CategoryBooking, `acuityscheduling\.com`, 0.95),
	pat("squarespace scheduling", CategoryBooking, `squarespacescheduling\.com`, 0.95),
	pat("square appointments", CategoryBooking, `squareup\.com/appointments|square\.site/book`, 0.9),
	pat("booksy", CategoryBooking, `booksy\.com`, 0.95),
	pat("vagaro", CategoryBooking, `vagaro\.com`, 0.95),
	pat("mindbody", CategoryBooking, `mindbodyonline\.com|widgets\.mindbody`, 0.95),
	pat("setmore", CategoryBooking, `setmore\.com`, 0.9),
	pat("simplybook", CategoryBooking, `simplybook\.(me|it)`, 0.9),
	pat("housecall pro", CategoryBooking, `housecallpro\.com|book\.housecall`, 0.9),
	pat("jobber", CategoryBooking, `getjobber\.com|clienthub\.getjobber`, 0.9),
	pat("servicetitan", CategoryBooking, `servicetitan\.com|scheduleengine`, 0.85),
	pat("zocdoc", CategoryBooking, `zocdoc\.com`, 0.9),
	pat("opentable", CategoryBooking, `opentable\.com`, 0.9),
	pat("resy", CategoryBooking, `resy\.com`, 0.9),
}

var trackingPatterns = []Pattern{
	pat("google analytics", CategoryTracking, `www\.google-analytics\.com|gtag\(|analytics\.js|ga\.js`, 0.9),
	pat("google tag manager", CategoryTracking, `googletagmanager\.com`, 0.95),
	pat("meta pixel", CategoryTracking, `connect\.facebook\.net/[a-z_]+/fbevents\.js|fbq\(`, 0.95),
	pat("hotjar", CategoryTracking, `static\.hotjar\.com|hjsv`, 0.95),
	pat("microsoft clarity", CategoryTracking, `clarity\.ms`, 0.95),
	pat("linkedin insight", CategoryTracking, `snap\.licdn\.com`, 0.95),
	pat("tiktok pixel", CategoryTracking, `analytics\.tiktok\.com`, 0.95),
	pat("pinterest tag", CategoryTracking, `s\.pinimg\.com/ct`, 0.9),
	pat("segment", CategoryTracking, `cdn\.segment\.com`, 0.9),
	pat("mixpanel", CategoryTracking, `cdn\.mxpnl\.com|mixpanel\.init`, 0.9),
	pat("plausible", CategoryTracking, `plausible\.io/js`, 0.9),
	pat("fathom", CategoryTracking, `usefathom\.com`, 0.9),
}

var consentPatterns = []Pattern{
	pat("cookiebot", CategoryConsent, `consent\.cookiebot\.com`, 0.95),
	pat("onetrust", CategoryConsent, `cdn\.cookielaw\.org|onetrust`, 0.9),
	pat("usercentrics", CategoryConsent, `usercentrics\.eu`, 0.95),
	pat("complianz", CategoryConsent, `complianz`, 0.85),
	pat("termly", CategoryConsent, `app\.termly\.io`, 0.9),
	pat("cookieyes", CategoryConsent, `cdn-cookieyes\.com`, 0.95),
}

var ecommercePatterns = []Pattern{
	pat("shopify", CategoryEcommerce, `cdn\.shopify\.com|myshopify\.com`, 0.95),
	pat("woocommerce", CategoryEcommerce, `woocommerce`, 0.9),
	pat("bigcommerce", CategoryEcommerce, `bigcommerce\.com`, 0.9),
	pat("magento", CategoryEcommerce, `mage/|magento`, 0.85),
	pat("squarespace commerce", CategoryEcommerce, `squarespace-commerce`, 0.85),
	pat("snipcart", CategoryEcommerce, `cdn\.snipcart\.com`, 0.9),
}

var cmsPatterns = []Pattern{
	pat("wordpress", CategoryCMS, `/wp-content/|/wp-includes/|wp-json`, 0.95),
	pat("wix", CategoryCMS, `static\.parastorage\.com|wix\.com`, 0.95),
	pat("squarespace", CategoryCMS, `static1\.squarespace\.com|squarespace\.com`, 0.95),
	pat("webflow", CategoryCMS, `assets\.website-files\.com|webflow`, 0.9),
	pat("drupal", CategoryCMS, `drupal\.js|/sites/default/files/`, 0.9),
	pat("joomla", CategoryCMS, `/media/jui/|joomla`, 0.85),
	pat("duda", CategoryCMS, `cdn\.dudamobile\.com|dudaone`, 0.9),
	pat("godaddy website builder", CategoryCMS, `websitebuilder\.godaddy|img6\.wsimg\.com`, 0.85),
	pat("weebly", CategoryCMS, `weebly\.com|editmysite\.com`, 0.9),
	pat("ghost", CategoryCMS, `ghost\.(io|org)/|content/themes`, 0.8),
}

var builderPatterns = []Pattern{
	pat("elementor", CategoryBuilder, `elementor`, 0.9),
	pat("divi", CategoryBuilder, `/divi/|et_pb_`, 0.85),
	pat("beaver builder", CategoryBuilder, `fl-builder`, 0.85),
	pat("wpbakery", CategoryBuilder, `js_composer|wpbakery`, 0.85),
	pat("oxygen", CategoryBuilder, `oxygen/component-framework`, 0.85),
}

var frameworkPatterns = []Pattern{
	pat("react", CategoryFramework, `react(-dom)?(\.production)?\.min\.js|data-reactroot|__next_data__`, 0.8),
	pat("next.js", CategoryFramework, `/_next/static/|__next_data__`, 0.9),
	pat("vue", CategoryFramework, `vue(\.runtime)?(\.global)?(\.prod)?\.js|data-v-app`, 0.8),
	pat("nuxt", CategoryFramework, `/_nuxt/|__nuxt`, 0.9),
	pat("angular", CategoryFramework, `ng-version=`, 0.9),
	pat("gatsby", CategoryFramework, `___gatsby|gatsby-`, 0.85),
	pat("jquery", CategoryFramework, `jquery[.-]`, 0.75),
	pat("bootstrap", CategoryFramework, `bootstrap(\.bundle)?(\.min)?\.(css|js)`, 0.75),
	pat("alpine.js", CategoryFramework, `alpinejs|x-data=`, 0.75),
}

var adsPatterns = []Pattern{
	pat("google ads", CategoryAds, `googleadservices\.com|adsbygoogle|googlesyndication`, 0.9),
	pat("taboola", CategoryAds, `cdn\.taboola\.com`, 0.9),
	pat("outbrain", CategoryAds, `outbrain\.com`, 0.9),
	pat("criteo", CategoryAds, `static\.criteo\.net`, 0.9),
}

var croPatterns = []Pattern{
	pat("crazy egg", CategoryCRO, `script\.crazyegg\.com`, 0.95),
	pat("mouseflow", CategoryCRO, `cdn\.mouseflow\.com`, 0.95),
	pat("lucky orange", CategoryCRO, `luckyorange\.com`, 0.95),
	pat("vwo", CategoryCRO, `dev\.visualwebsiteoptimizer\.com`, 0.95),
	pat("optimizely", CategoryCRO, `cdn\.optimizely\.com`, 0.95),
	pat("fullstory", CategoryCRO, `fullstory\.com/s/fs\.js`, 0.95),
}

var paymentPatterns = []Pattern{
	pat("stripe", CategoryPayments, `js\.stripe\.com`, 0.95),
	pat("paypal", CategoryPayments, `paypal\.com/sdk|paypalobjects\.com`, 0.9),
	pat("square", CategoryPayments, `js\.squareup\.com|squarecdn\.com`, 0.9),
	pat("klarna", CategoryPayments, `klarna\.com`, 0.85),
	pat("afterpay", CategoryPayments, `afterpay\.(com|js)`, 0.85),
}

var emailMktPatterns = []Pattern{
	pat("mailchimp", CategoryEmailMkt, `chimpstatic\.com|list-manage\.com|mc\.us\d+`, 0.9),
	pat("klaviyo", CategoryEmailMkt, `static\.klaviyo\.com|klaviyo\.js`, 0.95),
	pat("constant contact", CategoryEmailMkt, `ctctcdn\.com|constantcontact`, 0.9),
	pat("convertkit", CategoryEmailMkt, `convertkit\.com|ck\.page`, 0.9),
	pat("activecampaign", CategoryEmailMkt, `activehosted\.com|trackcmp\.net`, 0.9),
	pat("hubspot forms", CategoryEmailMkt, `js\.hsforms\.net`, 0.9),
}

// allTables in the order hits are emitted before ranking.
var allTables = [][]Pattern{
	chatPatterns,
	bookingPatterns,
	trackingPatterns,
	consentPatterns,
	ecommercePatterns,
	cmsPatterns,
	builderPatterns,
	frameworkPatterns,
	adsPatterns,
	croPatterns,
	paymentPatterns,
	emailMktPatterns,
}

// serverSignatures maps Server-header substrings to named technologies.
var serverSignatures = []struct {
	Substr   string
	Name     string
	Category string
}{
	{"cloudflare", "cloudflare", CategoryCDN},
	{"nginx", "nginx", CategoryServer},
	{"apache", "apache", CategoryServer},
	{"litespeed", "litespeed", CategoryServer},
	{"microsoft-iis", "iis", CategoryServer},
	{"caddy", "caddy", CategoryServer},
	{"openresty", "openresty", CategoryServer},
}

// poweredBySignatures maps X-Powered-By substrings to named technologies.
var poweredBySignatures = []struct {
	Substr   string
	Name     string
	Category string
}{
	{"php", "php", CategoryServer},
	{"express", "express", CategoryServer},
	{"asp.net", "asp.net", CategoryServer},
	{"next.js", "next.js", CategoryFramework},
	{"wp engine", "wp engine", CategoryServer},
}

// knownCMSNames lets a generator meta tag imply a CMS without markup
// fingerprints.
var knownCMSNames = []string{
	"wordpress", "wix", "squarespace", "webflow", "drupal", "joomla",
	"duda", "weebly", "ghost", "shopify", "typo3", "hugo", "jekyll",
}

// legalKeywords maps link keywords to page labels.
var legalKeywords = []struct {
	Keyword string
	Label   string
}{
	{"privacy", "privacy-policy"},
	{"terms", "terms-of-service"},
	{"conditions", "terms-of-service"},
	{"cookie", "cookie-policy"},
	{"impressum", "imprint"},
	{"imprint", "imprint"},
	{"legal", "legal-notice"},
	{"disclaimer", "disclaimer"},
	{"accessibility", "accessibility"},
}
